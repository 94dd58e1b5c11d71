package db

import (
	"context"

	"github.com/Spikeyfun/prediction/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Database struct {
	DbName string
	Client *mongo.Client
	cfg    config.DbConfig
}

func New(ctx context.Context, cfg config.DbConfig) (*Database, error) {
	clientOps := options.Client().ApplyURI(cfg.Address)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return nil, err
	}

	return &Database{
		DbName: cfg.DbName,
		Client: client,
		cfg:    cfg,
	}, nil
}

func (db *Database) Ping(ctx context.Context) error {
	err := db.Client.Ping(ctx, nil)
	if err != nil {
		return err
	}
	return nil
}

func (db *Database) collection(name string) *mongo.Collection {
	return db.Client.Database(db.DbName).Collection(name)
}
