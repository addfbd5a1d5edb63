// Package example implements a small demo application exercising the public
// API: a route module, middleware, typed JSON retrieval and the pooled
// database connection.
package example

import (
	"github.com/advdv/bserve"
	"github.com/advdv/bserve/bjson"
	"go.uber.org/zap"
)

// Config is the shared application configuration injected into every
// handler context.
type Config struct {
	Version string
}

// Users groups the user routes for mounting under a shared prefix.
type Users struct{}

// Mount implements bserve.Module.
func (Users) Mount(b *bserve.Block[Config]) {
	b.Add(bserve.Get, "/", listUsers)
	b.Add(bserve.Post, "/", createUser)
	b.Add(bserve.Any, "/version", version)
}

// Setup creates the users table the demo handlers query.
func Setup(ctx bserve.Context[Config]) error {
	_, err := ctx.DB.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, age INTEGER NOT NULL)`)

	return err
}

func listUsers(ctx bserve.Context[Config], _ *bserve.Request) (*bserve.Response, error) {
	rows, err := ctx.DB.QueryContext(ctx, `SELECT id, name, age FROM users ORDER BY id`)
	if err != nil {
		return nil, bserve.ServerError("query users")
	}
	defer rows.Close()

	out := bjson.NewArray()

	for rows.Next() {
		var (
			id   int64
			name string
			age  int32
		)
		if err := rows.Scan(&id, &name, &age); err != nil {
			return nil, bserve.ServerError("scan user")
		}

		user := bjson.NewObject()
		user.Set("id", id)
		user.Set("name", name)
		user.Set("age", age)
		out.Append(user)
	}
	if err := rows.Err(); err != nil {
		return nil, bserve.ServerError("iterate users")
	}

	return bserve.JSON(out), nil
}

func createUser(ctx bserve.Context[Config], r *bserve.Request) (*bserve.Response, error) {
	body, err := r.Body.Object()
	if err != nil {
		return nil, err
	}

	name, err := bjson.Get[string](body, "name")
	if err != nil {
		return nil, err
	}

	age, err := bjson.Get[int32](body, "age")
	if err != nil {
		return nil, err
	}

	res, err := ctx.DB.ExecContext(ctx,
		`INSERT INTO users (name, age) VALUES (?, ?)`, name, age)
	if err != nil {
		return nil, bserve.ServerError("insert user")
	}

	id, _ := res.LastInsertId()

	out := bjson.NewObject()
	out.Set("id", id)

	return bserve.JSON(out).WithStatus(bserve.StatusCreated), nil
}

func version(ctx bserve.Context[Config], _ *bserve.Request) (*bserve.Response, error) {
	return bserve.String(ctx.Config.Version), nil
}

// Logging returns middleware that logs every dispatch.
func Logging(logs *zap.Logger) bserve.Middleware[Config] {
	return func(next bserve.Handler[Config]) bserve.Handler[Config] {
		return bserve.HandlerFunc[Config](func(ctx bserve.Context[Config], r *bserve.Request) (*bserve.Response, error) {
			logs.Info("dispatch",
				zap.String("method", r.Method.String()),
				zap.String("path", r.Path))

			return next.Serve(ctx, r)
		})
	}
}
