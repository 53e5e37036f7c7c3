package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-shopstock/internal/handler"
	"go-shopstock/internal/middleware"
	"go-shopstock/internal/model"
	"go-shopstock/internal/repository"
	"go-shopstock/internal/service"
	"go-shopstock/internal/ws"
	"go-shopstock/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Shop{}, &model.ShopSubscription{},
		&model.InventoryItem{}, &model.Movement{},
		&model.Replenishment{}, &model.ReplenishmentItem{},
		&model.Order{}, &model.OrderItem{}, &model.PaymentReceipt{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	invRepo := repository.NewInventoryRepo(db)
	repRepo := repository.NewReplenishmentRepo(db)
	shopRepo := repository.NewShopRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	invService := service.NewInventoryService(invRepo, repRepo, wsHub)
	shopService := service.NewShopService(shopRepo, invService)
	orderService := service.NewOrderService(orderRepo, wsHub)
	dashService := service.NewDashboardService(invRepo, shopRepo, orderRepo)
	authService := service.NewAuthService(userRepo, shopRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	stockHandler := handler.NewStockHandler(invService)
	shopHandler := handler.NewShopHandler(shopService)
	orderHandler := handler.NewOrderHandler(orderService)
	catalogHandler := handler.NewCatalogHandler()
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "ShopStock API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Auth Routes (No authentication required)
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// Storefront: catalog, shop lookup, checkout and order tracking
	api.Get("/catalog/products", catalogHandler.GetProducts)
	api.Get("/catalog/kits", catalogHandler.GetKits)
	api.Get("/shops/slug/:slug", shopHandler.GetShopBySlug)
	api.Post("/orders", orderHandler.CreateOrder)
	api.Get("/orders/ref/:ref", orderHandler.GetOrderByRef)
	api.Post("/orders/:id/receipts", orderHandler.AttachReceipt)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard Routes
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetStats)
	protected.Get("/dashboard/stock-movement", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetMovementChart)

	// Shop administration
	protected.Get("/shops", middleware.RequirePrivilege("shop:view"), shopHandler.ListShops)
	protected.Get("/shops/:id", middleware.RequirePrivilege("shop:view"), shopHandler.GetShop)
	protected.Post("/shops", middleware.RequirePrivilege("shop:manage"), shopHandler.CreateShop)
	protected.Post("/shops/:id/activate", middleware.RequirePrivilege("shop:activate"), shopHandler.ActivateShop)
	protected.Post("/shops/:id/suspend", middleware.RequirePrivilege("shop:activate"), shopHandler.SuspendShop)

	// Stock ledger routes. Owners read and write only their token scoped
	// shop; admins address any shop via ?shop_id=.
	protected.Get("/stock/levels", middleware.RequirePrivilege("stock:view"), stockHandler.GetStockLevels)
	protected.Get("/stock/movements", middleware.RequirePrivilege("stock:view"), stockHandler.GetMovements)
	protected.Post("/stock/movements", middleware.RequirePrivilege("stock:adjust"), stockHandler.RecordMovement)
	protected.Post("/stock/adjust", middleware.RequirePrivilege("stock:adjust"), stockHandler.AdjustStock)
	protected.Post("/stock/init", middleware.RequirePrivilege("stock:init"), stockHandler.InitializeProduct)

	// Replenishment lifecycle: DRAFT, then RECEIVED or CANCELLED
	protected.Get("/replenishments", middleware.RequirePrivilege("stock:replenish"), stockHandler.ListReplenishments)
	protected.Get("/replenishments/:id", middleware.RequirePrivilege("stock:replenish"), stockHandler.GetReplenishment)
	protected.Post("/replenishments", middleware.RequirePrivilege("stock:replenish"), stockHandler.CreateReplenishment)
	protected.Post("/replenishments/:id/receive", middleware.RequirePrivilege("stock:replenish"), stockHandler.ReceiveReplenishment)
	protected.Post("/replenishments/:id/cancel", middleware.RequirePrivilege("stock:replenish"), stockHandler.CancelReplenishment)

	// Order administration
	protected.Get("/orders", middleware.RequirePrivilege("order:view"), orderHandler.ListOrders)
	protected.Get("/orders/:id", middleware.RequirePrivilege("order:view"), orderHandler.GetOrder)
	protected.Post("/receipts/:id/approve", middleware.RequirePrivilege("order:approve"), orderHandler.ApproveReceipt)
	protected.Post("/receipts/:id/reject", middleware.RequirePrivilege("order:approve"), orderHandler.RejectReceipt)

	// Owner self-service
	protected.Get("/my/shop", middleware.RequireShopScope(), shopHandler.GetMyShop)

	// User Management Routes
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges Route (list all available privileges)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("✅ MASTER_ADMIN role assigned all privileges")
	}

	// ADMIN gets limited privileges (exclude user management)
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" && p.Code != "user:update_privilege" {
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		db.Model(&adminRole).Association("Privileges").Replace(adminPrivileges)
		log.Println("✅ ADMIN role assigned limited privileges")
	}

	// OWNER gets the shop scoped set
	ownerRole, err := roleRepo.FindByCode(model.RoleOwner)
	if err == nil && len(ownerRole.Privileges) == 0 {
		ownerPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			for _, code := range model.OwnerPrivilegeCodes {
				if p.Code == code {
					ownerPrivileges = append(ownerPrivileges, p)
				}
			}
		}
		db.Model(&ownerRole).Association("Privileges").Replace(ownerPrivileges)
		log.Println("✅ OWNER role assigned shop scoped privileges")
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Master Administrator",
			PhoneNumber: "",
			Country:     "OTHER",
			RoleID:      &masterRole.ID,
			IsActive:    true,
			Privileges:  masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("✅ Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
