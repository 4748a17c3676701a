package metrics

import (
	"reversi/game"
	"time"
)

type AgentConfig struct {
	ID          int
	Simulations int
	Exploration float64
	Seed        uint64
}

type SearchMetric struct {
	Duration    time.Duration
	Episodes    int
	MaxDepth    int
	IsTreeReset bool
}

type MoveMetric struct {
	Step   int
	Player game.Player
	Move   string
	SearchMetric
}

type GameMetric struct {
	StartingAgent int // AgentConfig.ID
	Winner        game.Player
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalMoves    int
	Score         map[game.Player]int
}

// Collector accumulates statistics for one budgeted search. Start resets it.
type Collector interface {
	Start()
	SetTreeReset(value bool)
	AddEpisode(depth int)
	Complete() SearchMetric
}

type collector struct {
	startTime   time.Time
	episodes    int
	maxDepth    int
	isTreeReset bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.episodes = 0
	m.maxDepth = 0
	m.isTreeReset = false
}

// SetTreeReset records whether any query in the current search discarded the
// previous tree. Once set it stays set until the next Start.
func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset = m.isTreeReset || value
}

func (m *collector) AddEpisode(depth int) {
	m.episodes++
	m.maxDepth = max(m.maxDepth, depth)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:    time.Since(m.startTime),
		Episodes:    m.episodes,
		MaxDepth:    m.maxDepth,
		IsTreeReset: m.isTreeReset,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                  {}
func (m *dummyCollector) SetTreeReset(value bool) {}
func (m *dummyCollector) AddEpisode(depth int)    {}
func (m *dummyCollector) Complete() SearchMetric  { return SearchMetric{} }
