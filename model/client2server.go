package model

type SpawnAgentRequest struct {
	At      Coord  `json:"at"`
	Primary bool   `json:"primary"`
	Target  *Coord `json:"target,omitempty"`
}

type SpawnAgentResponse struct {
	Id string `json:"id"`
}

type SpawnObstacleRequest struct {
	At Coord `json:"at"`
}

type ObstacleResponse struct {
	Cell      Coord `json:"cell"`
	Direction Coord `json:"direction"`
}

type TargetRequest struct {
	At Coord `json:"at"`
}

type MazeResponse struct {
	Algorithm string `json:"algorithm,omitempty"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Steps     int    `json:"steps"`
}

type HeuristicResponse struct {
	Heuristic string `json:"heuristic"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
