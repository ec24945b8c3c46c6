package handlers

// @title E-Shop Reports API
// @version 1.0
// @description KPI aggregation and reporting service for the e-shop order data

// @contact.name API Support
// @contact.url https://github.com/your-org/eshop-reports-api

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name reports
// @tag.description KPI snapshot and reporting operations
