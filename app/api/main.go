package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/database/mongoclient"
	"github.com/curiomart/goapi/base/database/redisclient"
	"github.com/curiomart/goapi/base/log"
	"github.com/curiomart/goapi/base/metrics"
	bValidator "github.com/curiomart/goapi/base/validator"
	mmiddleware "github.com/curiomart/goapi/middleware"
	"github.com/curiomart/goapi/service/cache"
	redisProvider "github.com/curiomart/goapi/service/cache/provider/redis"
	"github.com/curiomart/goapi/service/payment"
	"github.com/curiomart/goapi/service/query"
	"github.com/curiomart/goapi/service/redis"
	account_delivery "github.com/curiomart/goapi/stores/account/delivery/http"
	account_repository "github.com/curiomart/goapi/stores/account/repository"
	account_usecase "github.com/curiomart/goapi/stores/account/usecase"
	auth_delivery "github.com/curiomart/goapi/stores/auth/delivery/http"
	auth_middleware "github.com/curiomart/goapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/curiomart/goapi/stores/auth/usecase"
	hc_delivery "github.com/curiomart/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/curiomart/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/curiomart/goapi/stores/healthcheck/usecase"
	listing_delivery "github.com/curiomart/goapi/stores/listing/delivery/http"
	listing_repository "github.com/curiomart/goapi/stores/listing/repository"
	listing_usecase "github.com/curiomart/goapi/stores/listing/usecase"
	notification_delivery "github.com/curiomart/goapi/stores/notification/delivery/http"
	notification_repository "github.com/curiomart/goapi/stores/notification/repository"
	notification_usecase "github.com/curiomart/goapi/stores/notification/usecase"
	offer_delivery "github.com/curiomart/goapi/stores/offer/delivery/http"
	offer_repository "github.com/curiomart/goapi/stores/offer/repository"
	offer_usecase "github.com/curiomart/goapi/stores/offer/usecase"
	rating_delivery "github.com/curiomart/goapi/stores/rating/delivery/http"
	rating_repository "github.com/curiomart/goapi/stores/rating/repository"
	rating_usecase "github.com/curiomart/goapi/stores/rating/usecase"
	settlement_delivery "github.com/curiomart/goapi/stores/settlement/delivery/http"
	settlement_usecase "github.com/curiomart/goapi/stores/settlement/usecase"
	watchlist_delivery "github.com/curiomart/goapi/stores/watchlist/delivery/http"
	watchlist_repository "github.com/curiomart/goapi/stores/watchlist/repository"
	watchlist_usecase "github.com/curiomart/goapi/stores/watchlist/usecase"
)

func init() {
	pflag.String("config", "infra/configs/config.yaml", "path to config file")
	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)

	viper.SetConfigType("yaml")
	viper.SetConfigFile(viper.GetString("config"))
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init Redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
		Src: redisCachePool,
	})

	paymentClient := payment.NewClient(&payment.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    viper.GetDuration("payment.timeout"),
		BaseUrl:    viper.GetString("payment.baseUrl"),
		Apikey:     viper.GetString("payment.apikey"),
	})

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	listingRepo := listing_repository.NewListing(q)
	bidRepo := listing_repository.NewBid(q)
	offerRepo := offer_repository.New(q)
	watchlistRepo := watchlist_repository.New(q)
	ratingRepo := rating_repository.New(q)
	accountRepo := account_repository.New(q)
	notificationRepo := notification_repository.New(q)

	sellerScoreCache := cache.New(cache.ServiceConfig{
		Ttl:   10 * time.Minute,
		Pfx:   "sellerscore",
		Cache: redisProvider.NewRedis(redisCache),
	})

	hc := hc_usecase.New(hcRepo)
	notifier := notification_usecase.New(&notification_usecase.NotificationUseCaseCfg{
		NotificationRepo: notificationRepo,
	})
	account := account_usecase.New(&account_usecase.AccountUseCaseCfg{
		AccountRepo: accountRepo,
	})
	rating := rating_usecase.New(&rating_usecase.RatingUseCaseCfg{
		RatingRepo:  ratingRepo,
		ListingRepo: listingRepo,
		ScoreCache:  sellerScoreCache,
	})
	listing := listing_usecase.New(&listing_usecase.ListingUseCaseCfg{
		ListingRepo: listingRepo,
		BidRepo:     bidRepo,
		OfferRepo:   offerRepo,
		RatingUC:    rating,
		Suspension:  account,
		Notifier:    notifier,
		Query:       q,
	})
	offer := offer_usecase.New(&offer_usecase.OfferUseCaseCfg{
		OfferRepo:   offerRepo,
		ListingRepo: listingRepo,
		Suspension:  account,
		Notifier:    notifier,
	})
	watchlist := watchlist_usecase.New(&watchlist_usecase.WatchlistUseCaseCfg{
		WatchlistRepo: watchlistRepo,
		ListingRepo:   listingRepo,
	})
	settlement := settlement_usecase.New(&settlement_usecase.SettlementUseCaseCfg{
		ListingRepo:   listingRepo,
		WatchlistRepo: watchlistRepo,
		RatingUC:      rating,
		Notifier:      notifier,
		Payment:       paymentClient,
		Workers:       viper.GetInt("settlement.workers"),
	})
	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"), account)

	adminUsers := viper.GetStringSlice("admin.users")
	authMiddleware := auth_middleware.New(auth, adminUsers)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth)
	account_delivery.New(e, account, authMiddleware)
	listing_delivery.New(e, listing, authMiddleware)
	offer_delivery.New(e, offer, authMiddleware)
	watchlist_delivery.New(e, watchlist, authMiddleware)
	rating_delivery.New(e, rating, authMiddleware)
	notification_delivery.New(e, notifier, authMiddleware)
	settlement_delivery.New(e, settlement, authMiddleware)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
