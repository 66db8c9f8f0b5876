package gateway

import (
	"net/http"

	"github.com/HCMUS-Project/saas-gateway/internal/errormap"
)

// Gateway role vocabulary. Roles are flat capability tags with no
// hierarchy between them.
const (
	RoleAdmin  = "ADMIN"
	RoleTenant = "TENANT"
	RoleUser   = "USER"
)

// Routes returns the gateway route table. Every route is a call-through:
// the handler forwards the request payload to the named downstream
// operation and shapes whatever comes back.
func Routes() []Route {
	return []Route{
		// Tenant service.
		{
			Method:    http.MethodGet,
			Path:      "/api/tenant/search/:domain",
			Auth:      AuthNone,
			Operation: "tenant/FindTenantByDomain",
			Mappings: []errormap.Entry{
				{Code: "TENANT_NOT_FOUND", Status: http.StatusNotFound, Message: "Tenant not found"},
			},
		},
		{
			Method:    http.MethodPost,
			Path:      "/api/tenant",
			Auth:      AuthAccess,
			Roles:     []string{RoleAdmin},
			Operation: "tenant/CreateTenant",
			Mappings: []errormap.Entry{
				{Code: "TENANT_ALREADY_EXISTS", Status: http.StatusConflict, Message: "Tenant already exists"},
			},
		},
		{
			Method:    http.MethodPost,
			Path:      "/api/tenant/verify",
			Auth:      AuthAccess,
			Roles:     []string{RoleAdmin},
			Operation: "tenant/VerifyTenant",
			Mappings: []errormap.Entry{
				{Code: "TENANT_NOT_FOUND", Status: http.StatusNotFound, Message: "Tenant not found"},
				{Code: "TENANT_NOT_ACTIVATED", Status: http.StatusBadRequest, Message: "Tenant not activated"},
				{Code: "TENANT_ALREADY_VERIFIED", Status: http.StatusConflict, Message: "Tenant already verified"},
			},
		},
		{
			Method:    http.MethodGet,
			Path:      "/api/tenant/profile",
			Auth:      AuthAccess,
			Roles:     []string{RoleTenant},
			Operation: "tenant/GetTenantProfile",
			Mappings: []errormap.Entry{
				{Code: "TENANT_NOT_FOUND", Status: http.StatusNotFound, Message: "Tenant not found"},
			},
		},
		{
			Method:    http.MethodPut,
			Path:      "/api/tenant/profile",
			Auth:      AuthAccess,
			Roles:     []string{RoleTenant},
			Operation: "tenant/UpdateTenantProfile",
			Mappings: []errormap.Entry{
				{Code: "TENANT_NOT_FOUND", Status: http.StatusNotFound, Message: "Tenant not found"},
				{Code: "TENANT_NOT_ACTIVATED", Status: http.StatusBadRequest, Message: "Tenant not activated"},
			},
		},

		// Auth service. Sign-out and refresh own the liveness record
		// lifecycle downstream; the gateway only guards and forwards.
		{
			Method:    http.MethodGet,
			Path:      "/api/auth/profile",
			Auth:      AuthAccess,
			Operation: "auth/GetProfile",
			Mappings: []errormap.Entry{
				{Code: "USER_NOT_FOUND", Status: http.StatusNotFound, Message: "User not found"},
			},
		},
		{
			Method:         http.MethodPost,
			Path:           "/api/auth/refresh-token",
			Auth:           AuthRefresh,
			Operation:      "auth/RefreshToken",
			SuccessStatus:  http.StatusOK,
			SuccessMessage: message("Token refreshed successfully"),
			Mappings: []errormap.Entry{
				{Code: "USER_NOT_FOUND", Status: http.StatusNotFound, Message: "User not found"},
				{Code: "TOKEN_MISMATCH", Status: http.StatusUnauthorized, Message: "Refresh token mismatch"},
			},
		},
		{
			Method:         http.MethodPost,
			Path:           "/api/auth/sign-out",
			Auth:           AuthAccess,
			Operation:      "auth/SignOut",
			SuccessStatus:  http.StatusOK,
			SuccessMessage: message("Sign out successfully"),
			Mappings: []errormap.Entry{
				{Code: "USER_NOT_FOUND", Status: http.StatusNotFound, Message: "User not found"},
			},
		},

		// Booking service.
		{
			Method:    http.MethodPost,
			Path:      "/api/booking",
			Auth:      AuthAccess,
			Roles:     []string{RoleUser},
			Operation: "booking/CreateBooking",
			Mappings: []errormap.Entry{
				{Code: "SERVICE_NOT_FOUND", Status: http.StatusNotFound, Message: "Service not found"},
				{Code: "SLOT_NOT_AVAILABLE", Status: http.StatusConflict, Message: "Booking slot not available"},
				{Code: "BOOKING_ALREADY_EXISTS", Status: http.StatusConflict, Message: "Booking already exists"},
			},
		},
		{
			Method:    http.MethodGet,
			Path:      "/api/booking/:id",
			Auth:      AuthAccess,
			Roles:     []string{RoleUser, RoleTenant},
			Operation: "booking/FindBookingById",
			Mappings: []errormap.Entry{
				{Code: "BOOKING_NOT_FOUND", Status: http.StatusNotFound, Message: "Booking not found"},
			},
		},
		{
			Method:    http.MethodDelete,
			Path:      "/api/booking/:id",
			Auth:      AuthAccess,
			Roles:     []string{RoleUser},
			Operation: "booking/CancelBooking",
			Mappings: []errormap.Entry{
				{Code: "BOOKING_NOT_FOUND", Status: http.StatusNotFound, Message: "Booking not found"},
				{Code: "BOOKING_ALREADY_CANCELLED", Status: http.StatusConflict, Message: "Booking already cancelled"},
			},
		},

		// Payment service.
		{
			Method:    http.MethodPost,
			Path:      "/api/payment/url",
			Auth:      AuthAccess,
			Roles:     []string{RoleUser},
			Operation: "payment/CreatePaymentUrl",
			Mappings: []errormap.Entry{
				{Code: "ORDER_NOT_FOUND", Status: http.StatusNotFound, Message: "Order not found"},
				{Code: "PAYMENT_METHOD_NOT_SUPPORTED", Status: http.StatusBadRequest, Message: "Payment method not supported"},
			},
		},
		{
			Method:    http.MethodGet,
			Path:      "/api/payment/callback",
			Auth:      AuthNone,
			Operation: "payment/HandleCallback",
			Mappings: []errormap.Entry{
				{Code: "INVALID_SIGNATURE", Status: http.StatusBadRequest, Message: "Invalid payment signature"},
				{Code: "ORDER_NOT_FOUND", Status: http.StatusNotFound, Message: "Order not found"},
			},
		},
	}
}

// BuildTable registers every route's error mapping entries under its
// operation and returns the resulting table.
func BuildTable(routes []Route) (*errormap.Table, error) {
	table := errormap.NewTable()
	for i := range routes {
		r := &routes[i]
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if len(r.Mappings) == 0 {
			continue
		}
		if err := table.Register(r.Operation, r.Mappings...); err != nil {
			return nil, err
		}
	}
	return table, nil
}
