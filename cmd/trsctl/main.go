package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"

	"github.com/teamrank/trs/api"
	"github.com/teamrank/trs/logging"
	"github.com/teamrank/trs/reputation"
	"github.com/teamrank/trs/storage"
	"github.com/teamrank/trs/storage/postgres"
)

func main() {
	app := &cli.App{
		Name:  "trsctl",
		Usage: "operational tool for the reputation service",
		Before: func(c *cli.Context) error {
			logging.BoostrapLogger()

			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
			viper.AddConfigPath("./")
			viper.AutomaticEnv()
			if err := viper.ReadInConfig(); err != nil {
				logging.Log.Warnf("no config file found, relying on env/defaults: %v", err)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "recompute-trust",
				Usage:  "run the trust power iteration against the configured backend and print the resulting vector",
				Action: recomputeTrust,
			},
			{
				Name:   "export-graph",
				Usage:  "dump users, trust scores and collapsed edges as JSON",
				Action: exportGraph,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending Postgres schema migrations",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logging.Log.Errorf("trsctl: %v", err)
		os.Exit(1)
	}
}

func loaderFromConfig(ctx context.Context, cfg *api.Config) (storage.Loader, error) {
	if cfg.Backend == "postgres" {
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return postgres.NewStore(pool), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := dynamodb.NewFromConfig(awsCfg)
	return &storage.Store{
		Users:   &storage.DynamoUserStorage{Client: client, TableName: cfg.TableNameUsers},
		Ratings: &storage.DynamoRatingStorage{Client: client, TableName: cfg.TableNameRatings},
	}, nil
}

func recomputeTrust(c *cli.Context) error {
	ctx := c.Context
	cfg := api.ReadConfig()

	loader, err := loaderFromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	svc := reputation.NewService(&cliLoaderAdapter{loader: loader}, reputation.TrustConfig{
		Damping:       cfg.Damping,
		MaxIterations: cfg.MaxIterations,
		Tolerance:     cfg.Tolerance,
	})

	trust, err := svc.TrustScores(ctx)
	if err != nil {
		return fmt.Errorf("compute trust: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(trust)
}

func exportGraph(c *cli.Context) error {
	ctx := c.Context
	cfg := api.ReadConfig()

	loader, err := loaderFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	adapter := &cliLoaderAdapter{loader: loader}

	svc := reputation.NewService(adapter, reputation.TrustConfig{
		Damping:       cfg.Damping,
		MaxIterations: cfg.MaxIterations,
		Tolerance:     cfg.Tolerance,
	})

	users, err := adapter.AllUsers(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	trust, err := svc.TrustScores(ctx)
	if err != nil {
		return fmt.Errorf("compute trust: %w", err)
	}
	edges, err := svc.CollapsedEdges(ctx)
	if err != nil {
		return fmt.Errorf("collapse edges: %w", err)
	}

	out := struct {
		Users []reputation.User          `json:"users"`
		Trust reputation.TrustVector     `json:"trust"`
		Edges []reputation.CollapsedEdge `json:"edges"`
	}{Users: users, Trust: trust, Edges: edges}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func migrate(c *cli.Context) error {
	cfg := api.ReadConfig()
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("storage.postgresDsn is empty, nothing to migrate")
	}

	db, err := sql.Open("pgx", cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logging.Log.Info("migrations applied")
	return nil
}

// cliLoaderAdapter bridges storage.Loader (which the CLI wires against
// either backend) to reputation.Loader, mirroring api/controllers.engineLoader.
type cliLoaderAdapter struct {
	loader storage.Loader
}

func (a *cliLoaderAdapter) AllUsers(ctx context.Context) ([]reputation.User, error) {
	users, err := a.loader.AllUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reputation.User, 0, len(users))
	for _, u := range users {
		out = append(out, reputation.User{ID: u.ID, Name: u.Name})
	}
	return out, nil
}

func (a *cliLoaderAdapter) AllRatings(ctx context.Context) ([]reputation.Rating, error) {
	ratings, err := a.loader.AllRatings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reputation.Rating, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, reputation.Rating{
			TeamID:         r.TeamID,
			RaterID:        r.RaterID,
			TargetID:       r.TargetID,
			Contribution:   r.Contribution,
			Communication:  r.Communication,
			WouldWorkAgain: r.WouldWorkAgain,
			CreatedAt:      r.CreatedAt,
		})
	}
	return out, nil
}
