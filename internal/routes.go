package internal

import (
	"net/http"
	"surveyd/internal/controllers"
	"surveyd/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController, adminController *controllers.AdminController, privacyController *controllers.PrivacyController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/api/survey", http.HandlerFunc(apiController.SubmitSurvey))
	routers.Get("/api/stats", http.HandlerFunc(apiController.GetStats))

	routers.Post("/api/auth/login", http.HandlerFunc(adminController.Login))
	routers.Post("/api/auth/logout", http.HandlerFunc(adminController.Logout))

	routers.Get("/api/admin/export", http.HandlerFunc(adminController.ExportCSV))
	routers.Get("/api/admin/audit", http.HandlerFunc(adminController.AuditLog))
	routers.Get("/api/admin/duplicates", http.HandlerFunc(adminController.Duplicates))
	routers.Delete("/api/admin/cleanup", http.HandlerFunc(adminController.Cleanup))

	routers.Post("/api/rgpd/request", http.HandlerFunc(privacyController.Request))
	routers.Get("/api/rgpd/export/{email}", http.HandlerFunc(privacyController.Export))
	routers.Delete("/api/rgpd/delete/{email}", http.HandlerFunc(privacyController.Delete))
	routers.Post("/api/rgpd/withdraw-consent", http.HandlerFunc(privacyController.WithdrawConsent))

	return routers
}
