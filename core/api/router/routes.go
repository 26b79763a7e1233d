package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"movie_review/core/api/handler"
	"movie_review/core/api/middleware"
)

// ============================================================================
// ⚠️ QUAN TRỌNG: BUG FIBER V3 - CÁCH ĐĂNG KÝ MIDDLEWARE
// ============================================================================
//
// Fiber v3 có bug với cách đăng ký middleware trực tiếp trong route:
// middleware sẽ KHÔNG được gọi nếu truyền trực tiếp vào route.
//
// ❌ CÁCH SAI (KHÔNG HOẠT ĐỘNG):
//    router.Get("/path", middleware.IsAuth(), handler)
//
// ✅ CÁCH ĐÚNG (PHẢI DÙNG):
//    registerRouteWithMiddleware(router, "/prefix", "GET", "/path", []fiber.Handler{middleware.IsAuth()}, handler)
//    → Middleware được đăng ký qua .Use() trên group nên luôn được gọi
//
// Nếu thêm route mới có middleware, PHẢI dùng registerRouteWithMiddleware.
// ============================================================================

// CONFIGS

// CRUDHandler định nghĩa interface cho các handler CRUD
type CRUDHandler interface {
	// Create
	InsertOne(c fiber.Ctx) error
	InsertMany(c fiber.Ctx) error

	// Read
	Find(c fiber.Ctx) error
	FindOne(c fiber.Ctx) error
	FindOneById(c fiber.Ctx) error
	FindManyByIds(c fiber.Ctx) error
	FindWithPagination(c fiber.Ctx) error

	// Update
	UpdateOne(c fiber.Ctx) error
	UpdateMany(c fiber.Ctx) error
	UpdateById(c fiber.Ctx) error
	FindOneAndUpdate(c fiber.Ctx) error

	// Delete
	DeleteOne(c fiber.Ctx) error
	DeleteMany(c fiber.Ctx) error
	DeleteById(c fiber.Ctx) error
	FindOneAndDelete(c fiber.Ctx) error

	// Other
	CountDocuments(c fiber.Ctx) error
	Distinct(c fiber.Ctx) error
	Upsert(c fiber.Ctx) error
	DocumentExists(c fiber.Ctx) error
}

// Router quản lý việc định tuyến cho API
type Router struct {
	app *fiber.App
}

// CRUDConfig cấu hình các operation được phép cho mỗi collection
type CRUDConfig struct {
	// Create
	InsOne  bool // Insert One
	InsMany bool // Insert Many

	// Read
	Find     bool // Find All
	FindOne  bool // Find One
	FindById bool // Find By Id
	FindIds  bool // Find Many By Ids
	Paginate bool // Find With Pagination

	// Update
	UpdOne  bool // Update One
	UpdMany bool // Update Many
	UpdById bool // Update By Id
	FindUpd bool // Find One And Update

	// Delete
	DelOne  bool // Delete One
	DelMany bool // Delete Many
	DelById bool // Delete By Id
	FindDel bool // Find One And Delete

	// Other
	Count    bool // Count Documents
	Distinct bool // Distinct
	Upsert   bool // Upsert One
	Exists   bool // Document Exists
}

// Config cho từng collection
var (
	readOnlyConfig = CRUDConfig{
		InsOne: false, InsMany: false,
		Find: true, FindOne: true, FindById: true,
		FindIds: true, Paginate: true,
		UpdOne: false, UpdMany: false, UpdById: false,
		FindUpd: false,
		DelOne:  false, DelMany: false, DelById: false,
		FindDel: false,
		Count:   true, Distinct: true,
		Upsert: false, Exists: true,
	}

	// User: admin chỉ được đọc qua CRUD surface, mọi thay đổi đi qua auth workflow
	userConfig = readOnlyConfig

	// Actor: insert/update không đụng tới avatar nên mở cho CRUD surface,
	// riêng delete phải đi qua endpoint nghiệp vụ để gỡ avatar trên media gateway
	actorConfig = CRUDConfig{
		InsOne: true, InsMany: true,
		Find: true, FindOne: true, FindById: true,
		FindIds: true, Paginate: true,
		UpdOne: true, UpdMany: true, UpdById: true,
		FindUpd: true,
		Count:   true, Distinct: true,
		Upsert: true, Exists: true,
	}

	// Movie: mọi write đều liên quan tới poster/trailer hoặc chuyển đổi ObjectID
	// nên phải đi qua endpoint nghiệp vụ, CRUD surface chỉ phục vụ tra cứu
	movieConfig = readOnlyConfig

	// Review: admin được đọc và xóa để dọn dẹp nội dung vi phạm,
	// tạo và sửa review chỉ đi qua endpoint nghiệp vụ của người dùng
	reviewConfig = CRUDConfig{
		Find: true, FindOne: true, FindById: true,
		FindIds: true, Paginate: true,
		DelOne: true, DelMany: true, DelById: true,
		FindDel: true,
		Count:   true, Distinct: true, Exists: true,
	}
)

// RoutePrefix chứa các prefix cơ bản cho API
type RoutePrefix struct {
	Base string // Prefix cơ bản (/api)
	V1   string // Prefix cho API version 1 (/api/v1)
}

// NewRoutePrefix tạo mới một instance của RoutePrefix với các giá trị mặc định
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// NewRouter tạo mới một instance của Router
func NewRouter(app *fiber.App) *Router {
	return &Router{
		app: app,
	}
}

// registerRouteWithMiddleware đăng ký route với middleware qua .Use() trên group.
// Đây là cách duy nhất để middleware được gọi đúng trong Fiber v3 (xem comment đầu file).
func registerRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case "GET":
		routeGroup.Get(path, handler)
	case "POST":
		routeGroup.Post(path, handler)
	case "PUT":
		routeGroup.Put(path, handler)
	case "DELETE":
		routeGroup.Delete(path, handler)
	}
}

// registerCRUDRoutes đăng ký các route CRUD cho một collection.
// Toàn bộ CRUD surface chỉ dành cho quản trị viên.
func (r *Router) registerCRUDRoutes(router fiber.Router, prefix string, h CRUDHandler, config CRUDConfig) {
	adminChain := []fiber.Handler{middleware.IsAuth(), middleware.IsAdmin()}

	// Create operations
	if config.InsOne {
		registerRouteWithMiddleware(router, prefix, "POST", "/insert-one", adminChain, h.InsertOne)
	}
	if config.InsMany {
		registerRouteWithMiddleware(router, prefix, "POST", "/insert-many", adminChain, h.InsertMany)
	}

	// Read operations
	if config.Find {
		registerRouteWithMiddleware(router, prefix, "GET", "/find", adminChain, h.Find)
	}
	if config.FindOne {
		registerRouteWithMiddleware(router, prefix, "GET", "/find-one", adminChain, h.FindOne)
	}
	if config.FindById {
		registerRouteWithMiddleware(router, prefix, "GET", "/find-by-id/:id", adminChain, h.FindOneById)
	}
	if config.FindIds {
		registerRouteWithMiddleware(router, prefix, "POST", "/find-by-ids", adminChain, h.FindManyByIds)
	}
	if config.Paginate {
		registerRouteWithMiddleware(router, prefix, "GET", "/find-with-pagination", adminChain, h.FindWithPagination)
	}

	// Update operations
	if config.UpdOne {
		registerRouteWithMiddleware(router, prefix, "PUT", "/update-one", adminChain, h.UpdateOne)
	}
	if config.UpdMany {
		registerRouteWithMiddleware(router, prefix, "PUT", "/update-many", adminChain, h.UpdateMany)
	}
	if config.UpdById {
		registerRouteWithMiddleware(router, prefix, "PUT", "/update-by-id/:id", adminChain, h.UpdateById)
	}
	if config.FindUpd {
		registerRouteWithMiddleware(router, prefix, "PUT", "/find-one-and-update", adminChain, h.FindOneAndUpdate)
	}

	// Delete operations
	if config.DelOne {
		registerRouteWithMiddleware(router, prefix, "DELETE", "/delete-one", adminChain, h.DeleteOne)
	}
	if config.DelMany {
		registerRouteWithMiddleware(router, prefix, "DELETE", "/delete-many", adminChain, h.DeleteMany)
	}
	if config.DelById {
		registerRouteWithMiddleware(router, prefix, "DELETE", "/delete-by-id/:id", adminChain, h.DeleteById)
	}
	if config.FindDel {
		registerRouteWithMiddleware(router, prefix, "DELETE", "/find-one-and-delete", adminChain, h.FindOneAndDelete)
	}

	// Other operations
	if config.Count {
		registerRouteWithMiddleware(router, prefix, "GET", "/count", adminChain, h.CountDocuments)
	}
	if config.Distinct {
		registerRouteWithMiddleware(router, prefix, "GET", "/distinct", adminChain, h.Distinct)
	}
	if config.Upsert {
		registerRouteWithMiddleware(router, prefix, "POST", "/upsert-one", adminChain, h.Upsert)
	}
	if config.Exists {
		registerRouteWithMiddleware(router, prefix, "GET", "/exists", adminChain, h.DocumentExists)
	}
}

// CÁC HÀM ĐĂNG KÝ ROUTES

// registerSystemRoutes đăng ký các route cho system operations
func registerSystemRoutes(router fiber.Router) error {
	systemHandler, err := handler.NewSystemHandler()
	if err != nil {
		return fmt.Errorf("failed to create system handler: %v", err)
	}

	// System routes
	router.Get("/system/health", systemHandler.HandleHealth)

	return nil
}

// registerAuthRoutes đăng ký các route xác thực cá nhân
//
// ⚠️ LƯU Ý: Routes có middleware PHẢI dùng registerRouteWithMiddleware (xem comment ở đầu file)
func (r *Router) registerAuthRoutes(router fiber.Router) error {
	userHandler, err := handler.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %v", err)
	}

	// Các route công khai cho đăng ký và đăng nhập
	router.Post("/auth/sign-up", userHandler.HandleRegistration)
	router.Post("/auth/verify-email", userHandler.HandleVerifyEmail)
	router.Post("/auth/resend-otp", userHandler.HandleResendOTP)
	router.Post("/auth/sign-in", userHandler.HandleSignIn)
	router.Post("/auth/forget-password", userHandler.HandleForgetPassword)
	router.Post("/auth/verify-reset-token", userHandler.HandleVerifyResetToken)
	router.Post("/auth/reset-password", userHandler.HandleResetPassword)

	// Các route yêu cầu đăng nhập
	authChain := []fiber.Handler{middleware.IsAuth()}
	registerRouteWithMiddleware(router, "/auth", "POST", "/log-out", authChain, userHandler.HandleLogout)
	registerRouteWithMiddleware(router, "/auth", "GET", "/is-auth", authChain, userHandler.HandleIsAuth)
	registerRouteWithMiddleware(router, "/auth", "GET", "/profile", authChain, userHandler.HandleGetProfile)
	registerRouteWithMiddleware(router, "/auth", "PUT", "/profile", authChain, userHandler.HandleUpdateProfile)

	// CRUD surface cho quản trị viên quản lý người dùng
	r.registerCRUDRoutes(router, "/user", userHandler, userConfig)

	return nil
}

// registerActorRoutes đăng ký các route cho quản lý diễn viên
func (r *Router) registerActorRoutes(router fiber.Router) error {
	actorHandler, err := handler.NewActorHandler()
	if err != nil {
		return fmt.Errorf("failed to create actor handler: %v", err)
	}

	// Route công khai
	router.Get("/actor/latest", actorHandler.HandleLatest)
	router.Get("/actor/search", actorHandler.HandleSearch)
	router.Get("/actor/single/:id", actorHandler.FindOneById)

	// Route quản trị: write phải đi qua các endpoint này để xử lý avatar trên media gateway
	adminChain := []fiber.Handler{middleware.IsAuth(), middleware.IsAdmin()}
	registerRouteWithMiddleware(router, "/actor", "POST", "/create", adminChain, actorHandler.HandleCreate)
	registerRouteWithMiddleware(router, "/actor", "PUT", "/update/:id", adminChain, actorHandler.HandleUpdate)
	registerRouteWithMiddleware(router, "/actor", "DELETE", "/delete/:id", adminChain, actorHandler.HandleDelete)

	// CRUD surface cho trang quản trị
	r.registerCRUDRoutes(router, "/actor", actorHandler, actorConfig)

	return nil
}

// registerMovieRoutes đăng ký các route cho quản lý phim
func (r *Router) registerMovieRoutes(router fiber.Router) error {
	movieHandler, err := handler.NewMovieHandler()
	if err != nil {
		return fmt.Errorf("failed to create movie handler: %v", err)
	}

	// Route công khai cho người xem
	router.Get("/movie/latest-uploads", movieHandler.HandleLatestUploads)
	router.Get("/movie/single/:id", movieHandler.HandleGetSingle)
	router.Get("/movie/related/:id", movieHandler.HandleRelated)
	router.Get("/movie/top-rated", movieHandler.HandleTopRated)
	router.Get("/movie/search-public", movieHandler.HandleSearchPublic)

	// Route quản trị: write phải đi qua các endpoint này để xử lý poster/trailer trên media gateway
	adminChain := []fiber.Handler{middleware.IsAuth(), middleware.IsAdmin()}
	registerRouteWithMiddleware(router, "/movie", "POST", "/upload-trailer", adminChain, movieHandler.HandleUploadTrailer)
	registerRouteWithMiddleware(router, "/movie", "POST", "/create", adminChain, movieHandler.HandleCreate)
	registerRouteWithMiddleware(router, "/movie", "PUT", "/update/:id", adminChain, movieHandler.HandleUpdate)
	registerRouteWithMiddleware(router, "/movie", "DELETE", "/delete/:id", adminChain, movieHandler.HandleDelete)
	registerRouteWithMiddleware(router, "/movie", "GET", "/search", adminChain, movieHandler.HandleSearchAdmin)
	registerRouteWithMiddleware(router, "/movie", "GET", "/for-update/:id", adminChain, movieHandler.FindOneById)

	// CRUD surface cho trang quản trị
	r.registerCRUDRoutes(router, "/movie", movieHandler, movieConfig)

	return nil
}

// registerReviewRoutes đăng ký các route cho đánh giá phim
func (r *Router) registerReviewRoutes(router fiber.Router) error {
	reviewHandler, err := handler.NewReviewHandler()
	if err != nil {
		return fmt.Errorf("failed to create review handler: %v", err)
	}

	// Route công khai: xem đánh giá của một phim
	router.Get("/review/by-movie/:id", reviewHandler.HandleByMovie)

	// Route cho người dùng đã xác thực email
	userChain := []fiber.Handler{middleware.IsAuth(), middleware.IsValidUser()}
	registerRouteWithMiddleware(router, "/review", "POST", "/add", userChain, reviewHandler.HandleAdd)
	registerRouteWithMiddleware(router, "/review", "PUT", "/update/:id", userChain, reviewHandler.HandleUpdateOwn)
	registerRouteWithMiddleware(router, "/review", "DELETE", "/delete/:id", userChain, reviewHandler.HandleDeleteOwn)
	registerRouteWithMiddleware(router, "/review", "GET", "/own/:id", userChain, reviewHandler.HandleOwnForMovie)

	// CRUD surface cho quản trị viên dọn dẹp nội dung
	r.registerCRUDRoutes(router, "/review", reviewHandler, reviewConfig)

	return nil
}

// SetupRoutes thiết lập tất cả các route cho ứng dụng
func SetupRoutes(app *fiber.App) error {
	// Khởi tạo route prefix
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)

	// Khởi tạo router
	router := NewRouter(app)

	// 1. System Routes
	if err := registerSystemRoutes(v1); err != nil {
		return fmt.Errorf("failed to register system routes: %v", err)
	}

	// 2. Auth Routes (Xác thực cá nhân + quản lý người dùng)
	if err := router.registerAuthRoutes(v1); err != nil {
		return fmt.Errorf("failed to register auth routes: %v", err)
	}

	// 3. Actor Routes
	if err := router.registerActorRoutes(v1); err != nil {
		return fmt.Errorf("failed to register actor routes: %v", err)
	}

	// 4. Movie Routes
	if err := router.registerMovieRoutes(v1); err != nil {
		return fmt.Errorf("failed to register movie routes: %v", err)
	}

	// 5. Review Routes
	if err := router.registerReviewRoutes(v1); err != nil {
		return fmt.Errorf("failed to register review routes: %v", err)
	}

	return nil
}
