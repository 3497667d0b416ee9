package database

import (
	"context"
	"strings"
	"time"

	"github.com/AnshRaj112/promisu-backend/internal/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo connects to MongoDB and returns the client together with the
// database named in the URI, or fallbackDB when the URI carries none.
func ConnectMongo(mongoURI, fallbackDB string) (*mongo.Client, *mongo.Database, error) {
	// Use longer timeout for Atlas connections
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	logger.Info("Attempting to connect to MongoDB...")
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, err
	}

	db := client.Database(MongoDatabaseName(mongoURI, fallbackDB))
	logger.Info("✅ Connected to MongoDB", "database", db.Name())
	return client, db, nil
}

// MongoDatabaseName extracts the database path segment from a connection
// string. Format: mongodb://host/database_name?options
func MongoDatabaseName(mongoURI, fallback string) string {
	rest := mongoURI
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	slash := strings.Index(rest, "/")
	if slash < 0 {
		return fallback
	}
	name := strings.Split(rest[slash+1:], "?")[0]
	if name == "" {
		return fallback
	}
	return name
}

// DisconnectMongo closes the MongoDB client.
func DisconnectMongo(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
