package shade

import "go.uber.org/zap"

// Stats are the back end's per-frame performance counters.
type Stats struct {
	Shaders      int
	Vertexes     int
	Indexes      int
	TotalIndexes int // indexes times unfogged passes

	DlightVertexes int
	DlightIndexes  int

	Draws int
}

// Log writes the counters at info level.
func (s Stats) Log(log *zap.Logger) {
	log.Info("frame",
		zap.Int("shaders", s.Shaders),
		zap.Int("vertexes", s.Vertexes),
		zap.Int("indexes", s.Indexes),
		zap.Int("totalIndexes", s.TotalIndexes),
		zap.Int("dlightVertexes", s.DlightVertexes),
		zap.Int("dlightIndexes", s.DlightIndexes),
		zap.Int("draws", s.Draws),
	)
}
