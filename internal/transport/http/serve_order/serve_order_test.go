package serveorder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brewline/queue/internal/dal/identity"
	"github.com/brewline/queue/internal/service/models/business"
	"github.com/brewline/queue/internal/service/models/order"
	"github.com/brewline/queue/internal/service/services/ordersvc"
	"github.com/brewline/queue/internal/transport/http/middleware/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type fakeOrderService struct {
	order     *order.Order
	serveErr  error
	servedIDs []int64
}

func (f *fakeOrderService) GetOrder(_ context.Context, orderID int64) (*order.Order, error) {
	if f.order != nil && f.order.ID == orderID {
		return f.order, nil
	}
	return nil, nil
}

func (f *fakeOrderService) MarkServed(_ context.Context, orderID int64) (order.Order, error) {
	if f.serveErr != nil {
		return order.Order{}, f.serveErr
	}
	f.servedIDs = append(f.servedIDs, orderID)
	served := *f.order
	served.Status = order.StatusServed
	served.UpdatedAt = time.Now()
	return served, nil
}

type fakeBusinessService struct {
	business *business.Business
}

func (f *fakeBusinessService) GetByID(_ context.Context, id int64) (*business.Business, error) {
	if f.business != nil && f.business.ID == id {
		return f.business, nil
	}
	return nil, nil
}

func newTestRouter(orderSvc *fakeOrderService, businessSvc *fakeBusinessService, user *identity.User) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/api/orders/{orderID}/serve", func(w http.ResponseWriter, r *http.Request) {
		if user != nil {
			r = r.WithContext(auth.ContextWithUser(r.Context(), user))
		}
		ServeOrder(w, r, orderSvc, businessSvc)
	})
	return router
}

func TestServeOrder(t *testing.T) {
	pendingOrder := &order.Order{ID: 11, BusinessID: 7, Status: order.StatusPending}
	ownedBusiness := &business.Business{ID: 7, AdminID: "admin-1", IsActive: true}
	owner := &identity.User{UserID: "admin-1", Email: "admin@example.com"}
	stranger := &identity.User{UserID: "admin-2"}

	tests := []struct {
		name         string
		target       string
		orderSvc     *fakeOrderService
		businessSvc  *fakeBusinessService
		user         *identity.User
		expectedCode int
		expectedBody string
	}{
		{
			name:         "owner serves pending order",
			target:       "/api/orders/11/serve",
			orderSvc:     &fakeOrderService{order: pendingOrder},
			businessSvc:  &fakeBusinessService{business: ownedBusiness},
			user:         owner,
			expectedCode: http.StatusOK,
			expectedBody: `"status":"served"`,
		},
		{
			name:         "invalid order id",
			target:       "/api/orders/abc/serve",
			orderSvc:     &fakeOrderService{order: pendingOrder},
			businessSvc:  &fakeBusinessService{business: ownedBusiness},
			user:         owner,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "unauthenticated",
			target:       "/api/orders/11/serve",
			orderSvc:     &fakeOrderService{order: pendingOrder},
			businessSvc:  &fakeBusinessService{business: ownedBusiness},
			user:         nil,
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "order not found",
			target:       "/api/orders/404/serve",
			orderSvc:     &fakeOrderService{order: pendingOrder},
			businessSvc:  &fakeBusinessService{business: ownedBusiness},
			user:         owner,
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "not the owner",
			target:       "/api/orders/11/serve",
			orderSvc:     &fakeOrderService{order: pendingOrder},
			businessSvc:  &fakeBusinessService{business: ownedBusiness},
			user:         stranger,
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "already served",
			target:       "/api/orders/11/serve",
			orderSvc:     &fakeOrderService{order: pendingOrder, serveErr: ordersvc.ErrOrderAlreadyServed},
			businessSvc:  &fakeBusinessService{business: ownedBusiness},
			user:         owner,
			expectedCode: http.StatusConflict,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			router := newTestRouter(testCase.orderSvc, testCase.businessSvc, testCase.user)

			req := httptest.NewRequest(http.MethodPost, testCase.target, nil)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			assert.Equal(t, testCase.expectedCode, recorder.Code)
			if testCase.expectedBody != "" {
				assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
			}
		})
	}
}
