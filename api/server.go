package api

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/teamrank/trs/api/controllers"
	"github.com/teamrank/trs/api/transport"
	"github.com/teamrank/trs/logging"
	"github.com/teamrank/trs/reputation"
	"github.com/teamrank/trs/storage"
	"github.com/teamrank/trs/storage/postgres"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	r := transport.NewRouter(gin.DebugMode)

	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logging.Log.Errorf("failed to load AWS config: %v", err)
		panic("failed to load AWS config")
	}
	dynamoClient := dynamodb.NewFromConfig(cfg)

	store := &storage.Store{
		Users:        &storage.DynamoUserStorage{Client: dynamoClient, TableName: s.config.TableNameUsers},
		Lobbies:      &storage.DynamoLobbyStorage{Client: dynamoClient, TableName: s.config.TableNameLobbies},
		Teams:        &storage.DynamoTeamStorage{Client: dynamoClient, TableName: s.config.TableNameTeams},
		TeamMembers:  &storage.DynamoTeamMemberStorage{Client: dynamoClient, TableName: s.config.TableNameTeamMembers},
		Submissions:  &storage.DynamoSubmissionStorage{Client: dynamoClient, TableName: s.config.TableNameSubmissions},
		Ratings:      &storage.DynamoRatingStorage{Client: dynamoClient, TableName: s.config.TableNameRatings},
		JoinRequests: &storage.DynamoJoinRequestStorage{Client: dynamoClient, TableName: s.config.TableNameJoinRequests},
		Invitations:  &storage.DynamoInvitationStorage{Client: dynamoClient, TableName: s.config.TableNameInvitations},
	}

	// The relational backend is an alternate Loader for the engine itself,
	// not a replacement for the Dynamo-backed CRUD surface the
	// lobby/team/rating endpoints use.
	var engineLoader storage.Loader = store
	if s.config.Backend == "postgres" {
		pool, err := postgres.Connect(context.Background(), s.config.PostgresDSN)
		if err != nil {
			logging.Log.Errorf("failed to connect to postgres: %v", err)
			panic("failed to connect to postgres")
		}
		engineLoader = postgres.NewStore(pool)
	}

	engineCfg := reputation.TrustConfig{
		Damping:       s.config.Damping,
		MaxIterations: s.config.MaxIterations,
		Tolerance:     s.config.Tolerance,
	}

	controllers.NewUsersController(store.Users).RegisterRoutes(r)
	controllers.NewLobbyMetaController(store.Lobbies).RegisterRoutes(r)
	controllers.NewTeamMetaController(store.Teams, store.TeamMembers).RegisterRoutes(r)
	controllers.NewRatingsController(store.Ratings, store.Lobbies, store.Teams, store.TeamMembers).RegisterRoutes(r)
	controllers.NewReputationController(engineLoader, engineCfg).RegisterRoutes(r)
	controllers.NewMatchingController(engineLoader, store.Lobbies, store.Teams, store.TeamMembers, store.Invitations, engineCfg).RegisterRoutes(r)

	if os.Getenv("APP_ENV") == "local" {
		startLocal(r, s.config.Port)
	} else {
		startLambda(r)
	}
}

// startLambda sets up for AWS Lambda.
func startLambda(engine *gin.Engine) {
	ginLambda := ginadapter.NewV2(engine)

	handler := func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		logging.Log.Infof("Lambda handler triggered on path: %s", req.RawPath)
		return ginLambda.ProxyWithContext(ctx, req)
	}

	logging.Log.Info("Starting lambda")
	lambda.Start(handler)
}

// startLocal starts a normal HTTP server on the given port.
func startLocal(engine *gin.Engine, port int) {
	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", port))

	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
