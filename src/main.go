package main

import (
	"log"
	"net/http"
	"os"
	"path"
	"regexp"

	"rifa/src/boot"
	"rifa/src/common"
	"rifa/src/config"
	"rifa/src/controllers"
	"rifa/src/middlewares"
	"rifa/src/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

var phoneRegexp = regexp.MustCompile(`^\+?[0-9()\-\s]{7,20}$`)

var phoneValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	phone, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return phoneRegexp.MatchString(phone)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("phone", phoneValidatorFunc)
	}
}

const (
	apiPrefix string = "/api/v1"
)

var (
	inventory  *common.Inventory
	sessions   *common.SessionManager
	moderation *common.Moderation
)

func initServices() {
	if inventory != nil {
		return
	}
	inventory = common.NewInventory(config.RaffleSize())
	var store common.SessionStore = common.NewMemorySessionStore()
	if os.Getenv("REDIS_HOST") != "" {
		store = common.NewRedisSessionStore()
	}
	sessions = common.NewSessionManager(store, inventory)
	moderation = common.NewModeration(inventory)
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func publicRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1 = ticketHandlers(apiv1)
	apiv1 = sessionHandlers(apiv1)
	return apiv1
}

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	guest := apiv1.Group("/auth")
	guest.Use(middlewares.VerifyIdToken)
	guest.
		POST("/login", func(ctx *gin.Context) {
			token, status, err := controllers.AuthLogin(ctx)
			if err != nil {
				log.Printf("[AuthLogin] error: %s\n", err.Error())
				ctx.Status(status)
				return
			}

			ctx.JSON(http.StatusOK, gin.H{
				"token": token,
			})
		})
	return guest
}

func adminRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	admin := apiv1.Group("/admin")
	admin.Use(middlewares.AuthMiddleware)
	admin.Use(middlewares.AdminMiddleware)
	admin = adminHandlers(admin)
	return admin
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}

	if utils.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	registerValidators()

	boot.InitDb()
	initServices()
	boot.InitInventory(inventory)
	boot.InitScheduler(inventory)
	defer boot.StopScheduler()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOrigins = []string{appHost}
		cc.AllowCredentials = true
		router.Use(cors.New(cc))
	}

	publicRoutes(router)
	guestAuthRoutes(router)
	adminRoutes(router)

	if err := router.Run(":9090"); err != nil {
		log.Printf("Failed to start server: %s\n", err.Error())
	}
}
