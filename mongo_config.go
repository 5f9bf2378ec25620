package seoblog

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoConfig struct {
	URI      string
	Host     string
	Port     int
	Username string
	Password string
	Database string
	Options  map[string]string
}

func NewMongoConfig() *MongoConfig {
	return &MongoConfig{
		Host:    "localhost",
		Port:    27017,
		Options: make(map[string]string),
	}
}

// WithURI sets a full connection string, which takes precedence over the
// host/credential builder.
func (c *MongoConfig) WithURI(uri string) *MongoConfig {
	c.URI = uri
	return c
}

func (c *MongoConfig) WithCredentials(username, password string) *MongoConfig {
	c.Username = username
	c.Password = password
	return c
}

func (c *MongoConfig) WithHost(host string, port int) *MongoConfig {
	c.Host = host
	c.Port = port
	return c
}

func (c *MongoConfig) WithDatabase(database string) *MongoConfig {
	c.Database = database
	return c
}

func (c *MongoConfig) WithOption(key, value string) *MongoConfig {
	c.Options[key] = value
	return c
}

func (c *MongoConfig) BuildURI() string {
	if c.URI != "" {
		return c.URI
	}
	var auth string
	if c.Username != "" && c.Password != "" {
		auth = url.UserPassword(c.Username, c.Password).String() + "@"
	}

	uri := fmt.Sprintf("mongodb://%s%s:%d", auth, c.Host, c.Port)

	if len(c.Options) > 0 {
		keys := make([]string, 0, len(c.Options))
		for key := range c.Options {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, key := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%s", key, c.Options[key]))
		}
		uri += "/?" + strings.Join(pairs, "&")
	}

	return uri
}

// Connect dials and pings the server. The caller owns the returned client
// and must Disconnect it.
func (c *MongoConfig) Connect(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(c.BuildURI())

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, client.Database(c.Database), nil
}
