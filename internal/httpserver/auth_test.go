package httpserver

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"storefront-backend/internal/checkout"
	"storefront-backend/internal/domain"
	customersvc "storefront-backend/internal/service/customer"
)

func TestSignupCreated(t *testing.T) {
	svc := &stubCustomerService{customer: &domain.Customer{ID: "cust-1", Email: "user@example.com"}}
	router := newTestRouter(t, Deps{ProductSvc: &stubProductService{}, CustomerSvc: svc})

	rec := doJSON(router, http.MethodPost, "/auth/signup",
		`{"email":"user@example.com","password":"password123"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email":"user@example.com"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks password material: %s", rec.Body.String())
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := &stubCustomerService{signupErr: domain.ErrAlreadyExists}
	router := newTestRouter(t, Deps{ProductSvc: &stubProductService{}, CustomerSvc: svc})

	rec := doJSON(router, http.MethodPost, "/auth/signup",
		`{"email":"user@example.com","password":"password123"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestSigninInvalidCredentials(t *testing.T) {
	svc := &stubCustomerService{signinErr: customersvc.ErrInvalidCredentials}
	router := newTestRouter(t, Deps{ProductSvc: &stubProductService{}, CustomerSvc: svc})

	rec := doJSON(router, http.MethodPost, "/auth/signin",
		`{"email":"user@example.com","password":"wrong"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSigninReturnsToken(t *testing.T) {
	svc := &stubCustomerService{
		customer: &domain.Customer{ID: "cust-1", Email: "user@example.com"},
		token:    "tok-abc",
	}
	router := newTestRouter(t, Deps{ProductSvc: &stubProductService{}, CustomerSvc: svc})

	rec := doJSON(router, http.MethodPost, "/auth/signin",
		`{"email":"user@example.com","password":"password123"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"accessToken":"tok-abc"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSignoutRequiresToken(t *testing.T) {
	router := newTestRouter(t, Deps{ProductSvc: &stubProductService{}, CustomerSvc: &stubCustomerService{}})
	rec := doJSON(router, http.MethodPost, "/auth/signout", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

type recordingProcessor struct {
	gotCustomer *domain.Customer
	result      *checkout.Result
}

func (p *recordingProcessor) Process(_ context.Context, _ *checkout.State, _ *domain.Cart, cust *domain.Customer) (*checkout.Result, error) {
	p.gotCustomer = cust
	return p.result, nil
}

func TestProcessCheckoutAttachesCustomer(t *testing.T) {
	cust := &domain.Customer{ID: "cust-1", Email: "user@example.com"}
	processor := &recordingProcessor{result: &checkout.Result{Completed: true}}
	router := newTestRouter(t, Deps{
		ProductSvc:  &stubProductService{},
		CustomerSvc: &stubCustomerService{customer: cust},
		Checkout:    processor,
	})

	rec := doJSON(router, http.MethodPost, "/checkout/process", "", map[string]string{authHeader: "tok"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if processor.gotCustomer == nil || processor.gotCustomer.ID != "cust-1" {
		t.Fatalf("expected customer attached, got %+v", processor.gotCustomer)
	}
}
