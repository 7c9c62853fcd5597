// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/coursehub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and back-end dependencies for the app.
//
// Services is filled in by Startup and read by BuildHandler; the pointer is
// shared because WAFFLE passes DBDeps by value.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil unless redis_addr is configured.
	Redis *ratelimit.RedisLimiter

	Services *Services
}
