package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// NewEventID generates a time-ordered int64 ID for activity events.
// Without a prior Init the node defaults to 0.
func NewEventID() int64 {
	once.Do(func() {
		node, _ = snowflake.NewNode(0)
	})
	return node.Generate().Int64()
}

// New returns a fresh 24-character hex document identifier.
func New() string {
	return primitive.NewObjectID().Hex()
}

// Valid reports whether s is a well-formed 24-character hex identifier.
func Valid(s string) bool {
	return primitive.IsValidObjectID(s)
}
