package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	bCtx "github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/database/mongoclient"
	"github.com/curiomart/goapi/base/log"
	"github.com/curiomart/goapi/service/payment"
	"github.com/curiomart/goapi/service/query"
	listing_repository "github.com/curiomart/goapi/stores/listing/repository"
	notification_repository "github.com/curiomart/goapi/stores/notification/repository"
	notification_usecase "github.com/curiomart/goapi/stores/notification/usecase"
	rating_repository "github.com/curiomart/goapi/stores/rating/repository"
	rating_usecase "github.com/curiomart/goapi/stores/rating/usecase"
	settlement_usecase "github.com/curiomart/goapi/stores/settlement/usecase"
	watchlist_repository "github.com/curiomart/goapi/stores/watchlist/repository"
)

func init() {
	pflag.String("config", "infra/configs/closer/config.yaml", "path to config file")
	pflag.Bool("once", false, "run one sweep and exit")
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
	ctx, cancel := bCtx.WithCancel(bCtx.Background())

	// liveness endpoint for the scheduler environment
	startEchoServer()

	ctx.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	paymentClient := payment.NewClient(&payment.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    viper.GetDuration("payment.timeout"),
		BaseUrl:    viper.GetString("payment.baseUrl"),
		Apikey:     viper.GetString("payment.apikey"),
	})

	listingRepo := listing_repository.NewListing(q)
	watchlistRepo := watchlist_repository.New(q)
	ratingRepo := rating_repository.New(q)
	notificationRepo := notification_repository.New(q)

	notifier := notification_usecase.New(&notification_usecase.NotificationUseCaseCfg{
		NotificationRepo: notificationRepo,
	})
	rating := rating_usecase.New(&rating_usecase.RatingUseCaseCfg{
		RatingRepo:  ratingRepo,
		ListingRepo: listingRepo,
	})
	settlement := settlement_usecase.New(&settlement_usecase.SettlementUseCaseCfg{
		ListingRepo:   listingRepo,
		WatchlistRepo: watchlistRepo,
		RatingUC:      rating,
		Notifier:      notifier,
		Payment:       paymentClient,
		Workers:       viper.GetInt("settlement.workers"),
	})

	interval := viper.GetDuration("settlement.interval")
	if interval <= 0 {
		interval = time.Minute
	}

	done := make(chan struct{})
	go func() {
		defer close(done)

		sweep := func() {
			if res, err := settlement.ProcessEndedAuctions(ctx); err != nil {
				ctx.WithField("err", err).Error("settlement.ProcessEndedAuctions failed")
			} else {
				ctx.WithFields(log.Fields{
					"activated": res.Activated,
					"processed": res.Processed,
					"skipped":   res.Skipped,
					"errors":    len(res.Errors),
				}).Info("sweep finished")
			}
		}

		sweep()
		if viper.GetBool("once") {
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case sig := <-quit:
		log.Log().WithField("signal", sig).Info("received signal")
		cancel()
		<-done
	case <-done:
		cancel()
	}
	log.Log().Info("closer stopped")
}

func startEchoServer() {
	e := echo.New()
	e.HidePort = true
	e.HideBanner = true
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()
}
