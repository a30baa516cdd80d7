package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mediocregopher/radix/v4"
	"github.com/tilinna/clock"

	"github.com/JongMin999/inflearn-fullstack-clone/common/cache"
	"github.com/JongMin999/inflearn-fullstack-clone/common/config"
	"github.com/JongMin999/inflearn-fullstack-clone/common/db"
	"github.com/JongMin999/inflearn-fullstack-clone/common/logging"
	"github.com/JongMin999/inflearn-fullstack-clone/internal/api"
	"github.com/JongMin999/inflearn-fullstack-clone/internal/course"
)

func main() {
	_ = godotenv.Load()

	logger := logging.Setup("course")

	dbConn, err := db.InitDB(config.LoadDBConfig())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	cacheConf := config.LoadCacheConfig()
	redisClient, err := (radix.PoolConfig{}).New(
		context.Background(),
		cacheConf.TransportProtocol,
		fmt.Sprintf("%s:%s", cacheConf.Host, cacheConf.Port),
	)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	repo := course.NewPGRepository(dbConn)
	courseCache := cache.NewCache(redisClient)
	realClock := clock.Realtime()

	router := gin.New()
	router.Use(logging.GinLogger(logger), logging.GinRecovery(logger))

	api.New(
		course.NewSearcher(repo, courseCache),
		course.NewDetailAssembler(repo, courseCache),
		course.NewEnroller(realClock, repo, courseCache),
		course.NewFavoriter(realClock, repo, courseCache),
		course.NewReviewer(realClock, repo, courseCache),
		course.NewCreator(realClock, repo, courseCache),
		course.NewCoursesBrowser(repo),
	).Register(router)

	httpConf := config.LoadHTTPServerConfig()
	if err := router.Run(fmt.Sprintf("%s:%s", httpConf.Host, httpConf.Port)); err != nil {
		logger.Error("http server stopped", "error", err)
		os.Exit(1)
	}
}
