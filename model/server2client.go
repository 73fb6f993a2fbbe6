package model

// StateMessage is the plain-data view of a session pushed to viewers.
type StateMessage struct {
	Mode            string         `json:"mode"`
	Algorithm       string         `json:"algorithm"`
	Phase           string         `json:"phase"`
	GenerationSteps int            `json:"generation_steps"`
	Heuristic       string         `json:"heuristic"`
	Width           int            `json:"width"`
	Height          int            `json:"height"`
	CellSize        float64        `json:"cell_size,omitempty"`
	Rows            []string       `json:"rows"`
	Start           Coord          `json:"start"`
	Goal            Coord          `json:"goal"`
	GlobalTarget    *Coord         `json:"global_target,omitempty"`
	Agents          []AgentView    `json:"agents"`
	Obstacles       []ObstacleView `json:"obstacles"`
	Solver          *SolverView    `json:"solver,omitempty"`
}

type AgentView struct {
	Id          string       `json:"id"`
	Position    [2]float32   `json:"position"`
	Target      *Coord       `json:"target,omitempty"`
	Path        []Coord      `json:"path"`
	Trail       [][2]float32 `json:"trail"`
	Primary     bool         `json:"primary"`
	Heuristic   string       `json:"heuristic"`
	Speed       float32      `json:"speed"`
	BlockedTime float32      `json:"blocked_time"`
}

type ObstacleView struct {
	Cell      Coord   `json:"cell"`
	Direction Coord   `json:"direction"`
	Progress  float32 `json:"progress"`
}

type SolverView struct {
	Steps     int     `json:"steps"`
	Found     bool    `json:"found"`
	Exhausted bool    `json:"exhausted"`
	Frontier  int     `json:"frontier"`
	Visited   []Coord `json:"visited"`
	Path      []Coord `json:"path,omitempty"`
}
