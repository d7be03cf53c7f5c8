package main

import (
	"net/http"
	"time"

	"pathfinder/api"
	"pathfinder/config"
	"pathfinder/controllers"
	"pathfinder/middleware"
	"pathfinder/routes"
	"pathfinder/store"
	"pathfinder/utils"
	"pathfinder/wizard"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	envErr := config.LoadEnv()
	settings := config.Load()

	if err := utils.InitLogger(settings.IsDev()); err != nil {
		panic(err)
	}
	defer utils.Log.Sync()
	if envErr != nil {
		utils.Log.Info("no .env file loaded, using process environment")
	}

	if !settings.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.Log.Info("starting", zap.String("gin_mode", gin.Mode()), zap.Bool("demo_mode", settings.DemoMode))

	utils.SetJWTKey(settings.JWTSecret)

	r := gin.Default()

	middleware.InitMetrics()
	r.Use(middleware.PrometheusMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     settings.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	demoStore := store.NewDemoStore()
	sessions := wizard.NewManager(settings.SessionTTL)

	var (
		orders        store.OrderStore        = demoStore
		announcements store.AnnouncementStore = demoStore
		vehicles      store.VehicleStore      = demoStore
		webUsers      store.WebUserStore      = demoStore
	)
	if !settings.DemoMode {
		if err := config.ConnectDatabase(settings); err != nil {
			utils.Log.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer config.DisconnectDatabase()

		mongoStore := store.NewMongoStore(config.DB)
		orders, announcements, vehicles, webUsers = mongoStore, mongoStore, mongoStore, mongoStore
	}

	var images store.ImageStore
	if settings.StorageEnabled() {
		s3, err := store.NewS3Images(settings.S3Endpoint, settings.S3AccessKey, settings.S3SecretKey, settings.S3Bucket, settings.CDNDomain)
		if err != nil {
			utils.Log.Fatal("failed to initialize object storage", zap.Error(err))
		}
		images = s3
	} else {
		utils.Log.Warn("object storage not configured, image uploads disabled")
	}

	var mailer utils.Mailer = utils.LogMailer{}
	if settings.SMTPHost != "" {
		mailer = utils.NewSMTPMailer(settings.SMTPHost, settings.SMTPPort, settings.SMTPUser, settings.SMTPPassword, settings.MailFrom)
	}

	location, err := time.LoadLocation(settings.TimeZone)
	if err != nil {
		utils.Log.Warn("failed to load time zone, using UTC", zap.String("time_zone", settings.TimeZone), zap.Error(err))
		location = time.UTC
	}
	scheduler := gocron.NewScheduler(location)
	_, err = scheduler.Every(10).Minutes().Do(func() {
		removed := sessions.Sweep()
		pruned := demoStore.Prune(time.Now().Add(-settings.SessionTTL))
		middleware.ActiveSessions.Set(float64(sessions.Len()))
		if removed > 0 || pruned > 0 {
			utils.Log.Info("expired wizard data removed", zap.Int("sessions", removed), zap.Int("demo_organizations", pruned))
		}
	})
	if err != nil {
		utils.Log.Fatal("failed to schedule session sweep", zap.Error(err))
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	routes.InitializeRoutes(r, routes.Deps{
		Onboarding: &controllers.Onboarding{
			Sessions:        sessions,
			Orders:          orders,
			DemoOrders:      demoStore,
			Mailer:          mailer,
			DemoMode:        settings.DemoMode,
			TokenTTL:        settings.SessionTTL,
			MaxDemoSessions: settings.DemoLimit,
		},
		Dashboard:     &controllers.Dashboard{Announcements: announcements, Vehicles: vehicles, Images: images},
		DemoDashboard: &controllers.Dashboard{Announcements: demoStore, Vehicles: demoStore, Images: images},
		Verifier:      api.NewAuthClient(settings.AuthServerURL),
		WebUsers:      webUsers,
	})

	utils.Log.Info("listening", zap.String("port", settings.Port))
	if err := r.Run(":" + settings.Port); err != nil && err != http.ErrServerClosed {
		utils.Log.Fatal("server stopped", zap.Error(err))
	}
}
