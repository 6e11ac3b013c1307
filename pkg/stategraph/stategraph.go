package stategraph

import (
	"database/sql"

	"github.com/stategraph/stategraph/internal/adapters/repository/memory"
	"github.com/stategraph/stategraph/internal/adapters/repository/sqlite"
	"github.com/stategraph/stategraph/internal/core/checkpoint"
	"github.com/stategraph/stategraph/internal/core/graph"
	"github.com/stategraph/stategraph/pkg/serialization"
)

// Reserved node-name sentinels.
const (
	START = graph.START
	END   = graph.END
)

// DefaultMaxIterations is the loop-guard budget applied when a builder
// does not set an explicit cap.
const DefaultMaxIterations = graph.DefaultMaxIterations

// MetaIterations is the metadata key carrying the step count of a run.
const MetaIterations = graph.MetaIterations

// Core types, re-exported so callers need only this package.
type (
	Builder[S any]   = graph.Builder[S]
	Graph[S any]     = graph.Graph[S]
	Result[S any]    = graph.Result[S]
	Topology         = graph.Topology
	Transform[S any] = graph.Transform[S]
	Router[S any]    = graph.Router[S]
	Merger[S any]    = graph.Merger[S]
	Predicate[S any] = graph.Predicate[S]
	Route[S any]     = graph.Route[S]

	Checkpoint[S any]      = checkpoint.Checkpoint[S]
	CheckpointStore[S any] = checkpoint.Store[S]
)

// Construction and traversal errors, re-exported for errors.Is checks.
var (
	ErrDuplicateNode         = graph.ErrDuplicateNode
	ErrNodeNotFound          = graph.ErrNodeNotFound
	ErrReservedName          = graph.ErrReservedName
	ErrNilTransform          = graph.ErrNilTransform
	ErrNilRouter             = graph.ErrNilRouter
	ErrEdgeExists            = graph.ErrEdgeExists
	ErrNoTargets             = graph.ErrNoTargets
	ErrNoEntryPoint          = graph.ErrNoEntryPoint
	ErrInvalidMaxIterations  = graph.ErrInvalidMaxIterations
	ErrMaxIterationsExceeded = graph.ErrMaxIterationsExceeded
	ErrInvalidRoute          = graph.ErrInvalidRoute

	ErrCheckpointNotFound = checkpoint.ErrNotFound
)

// New creates an empty topology builder for state type S.
func New[S any]() *Builder[S] {
	return graph.NewBuilder[S]()
}

// NewCheckpoint captures a snapshot at the given node; see the
// checkpoint contract for the caller-driven resume protocol.
func NewCheckpoint[S any](state S, node string, path []string, iteration int) *Checkpoint[S] {
	return checkpoint.New(state, node, path, iteration)
}

// NewMemoryCheckpointStore returns the reference in-memory store.
func NewMemoryCheckpointStore[S any]() CheckpointStore[S] {
	return memory.NewStore[S]()
}

// NewSQLiteCheckpointStore returns a durable store on db. A nil
// serializer selects msgpack+zstd.
func NewSQLiteCheckpointStore[S any](db *sql.DB, s *serialization.Serializer) (CheckpointStore[S], error) {
	return sqlite.NewStore[S](db, s)
}

// OpenSQLite opens (or creates) a SQLite database for checkpoint
// storage. Use ":memory:" for an ephemeral store.
func OpenSQLite(dsn string) (*sql.DB, error) {
	return sqlite.Open(dsn)
}
