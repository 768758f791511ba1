package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/brewline/queue/internal/dal/identity"
	"github.com/brewline/queue/internal/dal/suggest"
	"github.com/brewline/queue/internal/service/models/business"
	"github.com/brewline/queue/internal/service/models/order"
	"github.com/brewline/queue/internal/service/queue"
	"github.com/brewline/queue/internal/sync/livesync"
	businessqr "github.com/brewline/queue/internal/transport/http/business_qr"
	createorder "github.com/brewline/queue/internal/transport/http/create_order"
	deactivatebusiness "github.com/brewline/queue/internal/transport/http/deactivate_business"
	getbusiness "github.com/brewline/queue/internal/transport/http/get_business"
	getqueue "github.com/brewline/queue/internal/transport/http/get_queue"
	listbusinesses "github.com/brewline/queue/internal/transport/http/list_businesses"
	listorders "github.com/brewline/queue/internal/transport/http/list_orders"
	"github.com/brewline/queue/internal/transport/http/middleware/auth"
	registerbusiness "github.com/brewline/queue/internal/transport/http/register_business"
	serveorder "github.com/brewline/queue/internal/transport/http/serve_order"
	streamorders "github.com/brewline/queue/internal/transport/http/stream_orders"
	suggestadjustments "github.com/brewline/queue/internal/transport/http/suggest_adjustments"
	"github.com/brewline/queue/pkg/http/middleware/trace"
	"github.com/brewline/queue/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type orderService interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
	MarkServed(ctx context.Context, orderID int64) (order.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*order.Order, error)
	GetOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
	GetQueue(ctx context.Context, businessID int64) (queue.View, error)
}

type businessService interface {
	Register(ctx context.Context, b business.Business) (business.Business, error)
	GetByID(ctx context.Context, id int64) (*business.Business, error)
	ListActive(ctx context.Context) ([]business.Business, error)
	Deactivate(ctx context.Context, id int64) error
}

type HTTPTransport struct {
	server      *http.Server
	router      *chi.Mux
	orderSvc    orderService
	businessSvc businessService
	hub         *livesync.Hub
	verifier    identity.Verifier
	suggester   suggest.Suggester
}

func NewHTTPTransport(
	orderSvc orderService,
	businessSvc businessService,
	hub *livesync.Hub,
	verifier identity.Verifier,
	suggester suggest.Suggester,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:      server,
		router:      router,
		orderSvc:    orderSvc,
		businessSvc: businessSvc,
		hub:         hub,
		verifier:    verifier,
		suggester:   suggester,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Get("/businesses", h.listBusinesses)
		r.Get("/businesses/{businessID}", h.getBusiness)
		r.Get("/businesses/{businessID}/qr", h.businessQR)

		r.Post("/businesses/{businessID}/orders", h.createOrder)
		r.Get("/businesses/{businessID}/orders", h.listOrders)
		r.Get("/businesses/{businessID}/orders/stream", h.streamOrders)
		r.Get("/businesses/{businessID}/queue", h.getQueue)

		r.Post("/suggestions", h.suggestAdjustments)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(h.verifier))
			r.Post("/businesses", h.registerBusiness)
			r.Delete("/businesses/{businessID}", h.deactivateBusiness)
			r.Post("/orders/{orderID}/serve", h.serveOrder)
		})
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orderSvc)
}

func (h *HTTPTransport) streamOrders(w http.ResponseWriter, r *http.Request) {
	streamorders.StreamOrders(w, r, h.hub)
}

func (h *HTTPTransport) getQueue(w http.ResponseWriter, r *http.Request) {
	getqueue.GetQueue(w, r, h.orderSvc)
}

func (h *HTTPTransport) serveOrder(w http.ResponseWriter, r *http.Request) {
	serveorder.ServeOrder(w, r, h.orderSvc, h.businessSvc)
}

func (h *HTTPTransport) registerBusiness(w http.ResponseWriter, r *http.Request) {
	registerbusiness.RegisterBusiness(w, r, h.businessSvc)
}

func (h *HTTPTransport) getBusiness(w http.ResponseWriter, r *http.Request) {
	getbusiness.GetBusiness(w, r, h.businessSvc)
}

func (h *HTTPTransport) listBusinesses(w http.ResponseWriter, r *http.Request) {
	listbusinesses.ListBusinesses(w, r, h.businessSvc)
}

func (h *HTTPTransport) deactivateBusiness(w http.ResponseWriter, r *http.Request) {
	deactivatebusiness.DeactivateBusiness(w, r, h.businessSvc)
}

func (h *HTTPTransport) businessQR(w http.ResponseWriter, r *http.Request) {
	businessqr.BusinessQR(w, r, h.businessSvc)
}

func (h *HTTPTransport) suggestAdjustments(w http.ResponseWriter, r *http.Request) {
	suggestadjustments.SuggestAdjustments(w, r, h.suggester)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
