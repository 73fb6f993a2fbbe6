package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/mazewalk/config"
	"github.com/zucenko/mazewalk/server"
	"github.com/zucenko/mazewalk/sim"
)

const envConfigPath = "MAZEWALK_CONFIG"

type Server struct {
	router        *way.Router
	SessionServer *server.SessionServer
}

func main() {
	path := os.Getenv(envConfigPath)
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}
	log.SetLevel(cfg.Level())

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Infof("seed %d", seed)

	sessionConfig, err := cfg.Session()
	if err != nil {
		log.Fatal(err)
	}
	session, err := sim.NewSession(sessionConfig, rand.New(rand.NewSource(seed)))
	if err != nil {
		log.Fatal(err)
	}
	if err := session.NewMaze(sessionConfig.Algorithm); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := Server{SessionServer: server.NewSessionServer(session, cfg.FrameRate)}
	s.SessionServer.CellSize = cfg.CellSize
	go s.SessionServer.Loop(ctx)
	s.routes()

	httpServer := &http.Server{Addr: ":" + cfg.Port, Handler: s.router}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdown); err != nil {
			log.Warnf("shutdown: %v", err)
		}
	}()

	log.Infof("listening on :%s", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalln(err)
	}
}
