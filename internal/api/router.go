package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kirimaja/shipment-system/internal/api/handler"
	"github.com/kirimaja/shipment-system/internal/api/middleware"
	"github.com/kirimaja/shipment-system/internal/core/domain"
	"github.com/kirimaja/shipment-system/internal/core/ports"
)

// RouterDeps bundles everything the HTTP layer needs. Services are built in
// main so the router stays a pure wiring concern.
type RouterDeps struct {
	DB            *mongo.Database
	Redis         *redis.Client
	JWTSecret     string
	CallbackToken string
	Log           zerolog.Logger

	Shipments ports.ShipmentService
	Couriers  ports.CourierService
	Branches  ports.BranchService
	Auth      ports.AuthService
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("kirimaja"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	shipmentHandler := handler.NewShipmentHandler(d.Shipments)
	courierHandler := handler.NewCourierHandler(d.Couriers)
	branchHandler := handler.NewBranchHandler(d.Branches)
	webhookHandler := handler.NewWebhookHandler(d.Shipments, d.CallbackToken)

	authRequired := middleware.Auth(d.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Shipment routes ---
	v1 := e.Group("/v1")
	v1.POST("/shipments", shipmentHandler.Create,
		authRequired, middleware.RBAC(domain.RoleCustomer, domain.RoleAdmin))
	// Tracking is public: the tracking number itself is the capability.
	v1.GET("/shipments/:tracking_number", shipmentHandler.Track)

	// --- Courier routes ---
	courier := v1.Group("/courier", authRequired, middleware.RBAC(domain.RoleCourier, domain.RoleAdmin))
	courier.GET("/shipments", courierHandler.List)
	courier.POST("/shipments/:tracking_number/pick", courierHandler.Pick)
	courier.POST("/shipments/:tracking_number/pickup", courierHandler.Pickup)
	courier.POST("/shipments/:tracking_number/deliver-to-branch", courierHandler.DeliverToBranch)
	courier.POST("/shipments/:tracking_number/pick-from-branch", courierHandler.PickFromBranch)
	courier.POST("/shipments/:tracking_number/pickup-from-branch", courierHandler.PickupFromBranch)
	courier.POST("/shipments/:tracking_number/deliver", courierHandler.DeliverToCustomer)

	// --- Branch routes ---
	branch := v1.Group("/branch", authRequired, middleware.RBAC(domain.RoleBranchStaff, domain.RoleAdmin))
	branch.POST("/scan", branchHandler.Scan)
	branch.GET("/logs", branchHandler.Logs)

	// --- Payment gateway callback (token-checked, not JWT-authenticated) ---
	e.POST("/webhooks/xendit", webhookHandler.HandleInvoice)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.DB, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability / docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
