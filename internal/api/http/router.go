package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"unilib-backend/internal/security"
	"unilib-backend/internal/service"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Catalog     *CatalogHandler
	Membership  *MembershipHandler
	Circulation *CirculationHandler
	Fine        *FineHandler
	Report      *ReportHandler
	Settings    *SettingsHandler
}

// NewHandlers wires handlers from the service layer.
func NewHandlers(
	catalogSvc service.CatalogService,
	membershipSvc service.MembershipService,
	circulationSvc service.CirculationService,
	fineSvc service.FineService,
	reportSvc service.ReportService,
	policySvc service.PolicyService,
	noteSvc service.NotificationService,
) *Handlers {
	return &Handlers{
		Catalog:     NewCatalogHandler(catalogSvc),
		Membership:  NewMembershipHandler(membershipSvc),
		Circulation: NewCirculationHandler(circulationSvc),
		Fine:        NewFineHandler(fineSvc),
		Report:      NewReportHandler(reportSvc),
		Settings:    NewSettingsHandler(policySvc, noteSvc),
	}
}

// NewRouter builds the HTTP surface. Every route requires an authenticated
// actor; role checks live in the services.
func NewRouter(h *Handlers, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	// Catalog
	api.HandleFunc("/books", h.Catalog.AddBook).Methods(http.MethodPost)
	api.HandleFunc("/books", h.Catalog.ListBooks).Methods(http.MethodGet)
	api.HandleFunc("/books/{id}", h.Catalog.GetBook).Methods(http.MethodGet)
	api.HandleFunc("/books/{id}", h.Catalog.UpdateBook).Methods(http.MethodPut)
	api.HandleFunc("/books/{id}", h.Catalog.DeleteBook).Methods(http.MethodDelete)
	api.HandleFunc("/books/{id}/maintenance", h.Catalog.SetMaintenance).Methods(http.MethodPost)
	api.HandleFunc("/books/{id}/copies", h.Catalog.CorrectCopyCounts).Methods(http.MethodPost)
	api.HandleFunc("/categories", h.Catalog.CreateCategory).Methods(http.MethodPost)
	api.HandleFunc("/categories", h.Catalog.ListCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id}", h.Catalog.UpdateCategory).Methods(http.MethodPut)
	api.HandleFunc("/categories/{id}", h.Catalog.DeleteCategory).Methods(http.MethodDelete)

	// Membership
	api.HandleFunc("/users", h.Membership.RegisterUser).Methods(http.MethodPost)
	api.HandleFunc("/users", h.Membership.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", h.Membership.GetUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", h.Membership.UpdateUser).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}/deactivate", h.Membership.DeactivateUser).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}/reactivate", h.Membership.ReactivateUser).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}/loans", h.Circulation.ListUserLoans).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/fines", h.Fine.ListUserFines).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/fines/outstanding", h.Fine.OutstandingTotal).Methods(http.MethodGet)

	// Circulation
	api.HandleFunc("/loans", h.Circulation.BorrowBook).Methods(http.MethodPost)
	api.HandleFunc("/loans/pending", h.Circulation.ListPending).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}", h.Circulation.GetLoan).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}/renewal-request", h.Circulation.RequestRenewal).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id}/extend", h.Circulation.ExtendDueDate).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id}/return", h.Circulation.ReturnBook).Methods(http.MethodPost)

	// Fines
	api.HandleFunc("/fines/{id}", h.Fine.GetFine).Methods(http.MethodGet)
	api.HandleFunc("/fines/{id}/pay", h.Fine.MarkPaid).Methods(http.MethodPost)
	api.HandleFunc("/fines/{id}/waive", h.Fine.Waive).Methods(http.MethodPost)

	// Reports
	api.HandleFunc("/reports/daily-summary", h.Report.DailySummary).Methods(http.MethodGet)
	api.HandleFunc("/reports/current-borrowings", h.Report.CurrentBorrowings).Methods(http.MethodGet)
	api.HandleFunc("/reports/overdue-books", h.Report.OverdueBooks).Methods(http.MethodGet)
	api.HandleFunc("/reports/popular-books", h.Report.PopularBooks).Methods(http.MethodGet)
	api.HandleFunc("/reports/user-activity", h.Report.UserActivity).Methods(http.MethodGet)
	api.HandleFunc("/reports/fines-summary", h.Report.FinesSummary).Methods(http.MethodGet)
	api.HandleFunc("/reports/collection-status", h.Report.CollectionStatus).Methods(http.MethodGet)

	// Settings & notifications
	api.HandleFunc("/settings", h.Settings.ListSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings/{key}", h.Settings.UpdateSetting).Methods(http.MethodPut)
	api.HandleFunc("/notifications", h.Settings.ListNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", h.Settings.MarkNotificationRead).Methods(http.MethodPost)

	return r
}
