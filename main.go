package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"github.com/charlie572/Blind-Maze-Game/api"
	gameapi "github.com/charlie572/Blind-Maze-Game/api/game"
	api_i "github.com/charlie572/Blind-Maze-Game/api/i"
	"github.com/charlie572/Blind-Maze-Game/api/identity"
	"github.com/charlie572/Blind-Maze-Game/config"
	gamecodec "github.com/charlie572/Blind-Maze-Game/game/codec"
	"github.com/charlie572/Blind-Maze-Game/game/maze"
	"github.com/charlie572/Blind-Maze-Game/infrastructure/repo"
	"github.com/charlie572/Blind-Maze-Game/infrastructure/sortedstorage"
	"github.com/charlie572/Blind-Maze-Game/infrastructure/token"
	"github.com/charlie572/Blind-Maze-Game/logger"
	"github.com/charlie572/Blind-Maze-Game/service"
	"github.com/charlie572/Blind-Maze-Game/service/i"
	"github.com/charlie572/Blind-Maze-Game/udp"
	udpcodec "github.com/charlie572/Blind-Maze-Game/udp/codec"
	"github.com/charlie572/Blind-Maze-Game/udp/crypto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const leaderboardKey = "leaderboard:best_scores"

// Global variables for dependencies
var (
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	userRepo       i.UserRepo
	leaderboard    i.Leaderboard
	socketManager  i.ServerSocketManager
	runManager     i.RunManager
	runController  api_i.Controller
	jwtTokenizer   i.Tokenizer
	authService    i.Authenticator
	authController api_i.Controller
	router         *api.Router
	appLogger      *logger.Logger
)

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Errorf("Failed to connect to MongoDB: %v", err)
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Errorf("MongoDB ping failed: %v", err)
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initUserRepo(client *mongo.Client) {
	userRepo = repo.NewUserRepo(client, config.Envs.DBName, "users")
	appLogger.Info("User repository initialized")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", config.Envs.RedisHost, config.Envs.RedisPort),
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Errorf("Redis ping failed: %v", err)
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initLeaderboard() {
	var err error
	leaderboard, err = sortedstorage.NewRedisLeaderboard(redisClient, leaderboardKey)
	if err != nil {
		appLogger.Errorf("Creating leaderboard: %v", err)
		os.Exit(1)
	}
	appLogger.Info("Leaderboard initialized")
}

func initSocketManager() {
	rsaCrypto, err := crypto.NewRSA(2048)
	if err != nil {
		appLogger.Errorf("Generating socket key pair: %v", err)
		os.Exit(1)
	}

	listenAddr := &net.UDPAddr{
		IP:   net.ParseIP(config.Envs.HostIP),
		Port: config.Envs.SocketPort,
	}
	socketLogger := log.New(os.Stdout, "[SOCKET] ", log.LstdFlags)

	socketManager, err = udp.NewServerSocketManager(udp.ServerConfig{
		ListenAddr:  listenAddr,
		AsymmCrypto: rsaCrypto,
		SymmCrypto:  &crypto.AES{},
		Encoder:     &udpcodec.JSON{},
	},
		udp.ServerWithLogger(socketLogger),
		udp.ServerWithHeartbeatExpiration(2*time.Minute),
	)
	if err != nil {
		appLogger.Errorf("Creating socket manager: %v", err)
		os.Exit(1)
	}
	appLogger.Info("Socket manager initialized")
}

func newMaze(width, height int) (*maze.Maze, error) {
	m, err := maze.New(width, height)
	if err != nil {
		return nil, err
	}
	m.Generate()
	return m, nil
}

func initRunManager() {
	runLogger, err := logger.New("RUN-MANAGER", config.ColorCyan, os.Stdout)
	if err != nil {
		appLogger.Errorf("Creating run manager logger: %v", err)
		os.Exit(1)
	}

	runManager, err = service.NewRunManager(&service.RunManagerConfig{
		Socket:      socketManager,
		MazeFactory: newMaze,
		Encoder:     &gamecodec.JSON{},
		UserRepo:    userRepo,
		Leaderboard: leaderboard,
		MazeWidth:   config.Envs.MazeWidth,
		MazeHeight:  config.Envs.MazeHeight,
		RunDuration: time.Duration(config.Envs.RunDuration) * time.Second,
		MoveSpeed:   config.Envs.PlayerSpeed,
		TickRate:    config.Envs.TickRate,
		Logger:      runLogger,
	})
	if err != nil {
		appLogger.Errorf("Creating run manager: %v", err)
		os.Exit(1)
	}
	appLogger.Info("Run manager initialized")
}

func initRunController() {
	var err error
	runController, err = gameapi.NewRunController(runManager, leaderboard)
	if err != nil {
		appLogger.Errorf("Creating run controller: %v", err)
		os.Exit(1)
	}
	appLogger.Info("Run controller initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(userRepo, jwtTokenizer)
	if err != nil {
		appLogger.Errorf("Creating auth service: %v", err)
		os.Exit(1)
	}
	appLogger.Info("Auth service initialized")
}

func initAuthController() {
	authController = identity.NewIdentityServer(authService)
	appLogger.Info("Auth controller initialized")
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{authController, runController},
		AuthorizationMiddleware: identity.Authorize(t),
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel() // Ensure the context is always canceled

	gin.SetMode(config.Envs.GinMode)

	// Initialize dependencies
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	initMongo(ctx)
	defer func() {
		_ = mongoClient.Disconnect(ctx)
	}()

	initUserRepo(mongoClient)
	initRedis(ctx)
	defer redisClient.Close()

	initSocketManager()
	initLeaderboard()
	initRunManager()
	initRunController()
	initJWTTokenizer()
	initAuthService()
	initAuthController()
	initRouter(jwtTokenizer)

	go socketManager.Serve()
	defer func() {
		runManager.StopAll()
		socketManager.Stop()
	}()

	// Run HTTP server
	if err := router.Run(); err != nil {
		appLogger.Errorf("Starting server: %v", err)
		os.Exit(1)
	}
}
