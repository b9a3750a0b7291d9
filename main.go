package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"shahrdav-backend/handlers"
	"shahrdav-backend/pkg/config"
	"shahrdav-backend/pkg/database"
	"shahrdav-backend/pkg/logger"
	"shahrdav-backend/pkg/ratelimit"
	"shahrdav-backend/pkg/scheduler"
	"shahrdav-backend/pkg/seed"
	"shahrdav-backend/pkg/sms"
	"shahrdav-backend/pkg/websocket"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// @title           Shahrdav API
// @version         1.0
// @description     Backend API for the city running events mobile web app.

// @host      localhost:8080
// @BasePath  /api

// corsMiddleware adds CORS headers and logs the request. Credentials are
// allowed because the session lives in a cookie, so the origin is echoed
// back instead of using a wildcard.
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		log.Printf("📥 %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

		next(w, r)
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  no .env file, using environment variables")
	} else {
		fmt.Println("✅ .env loaded")
	}

	cfg := config.Load()

	logger.Init(cfg.IsProduction())
	defer logger.Sync()

	// 1. Database
	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal("❌ Database connection error: ", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("❌ Database ping error: ", err)
	}
	fmt.Printf("✅ Database connected! (%s@%s:%s/%s)\n", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName)

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatal("❌ Migration error: ", err)
	}
	fmt.Println("✅ Migrations applied!")

	// 2. Handler dependencies
	handlers.Configure(cfg.JWTSecret, cfg.IsProduction(), initSMSSender(), initOTPLimiter(cfg))

	// 3. WebSocket hub for the admin live feed
	websocket.SetJWTSecret(cfg.JWTSecret)
	websocket.InitGlobalHub()

	// 4. Background completion sweep
	scheduler.New(db, logger.Log, time.Hour).Start(context.Background())

	// 5. Sample data
	if cfg.SeedEvents {
		seed.SeedEvents(db)
	}

	// 6. Routes
	// Auth
	http.HandleFunc("/api/auth/send-otp", corsMiddleware(handlers.SendOTP(db)))
	http.HandleFunc("/api/auth/verify-otp", corsMiddleware(handlers.VerifyOTP(db)))
	http.HandleFunc("/api/auth/complete-profile", corsMiddleware(handlers.CompleteProfile(db)))
	http.HandleFunc("/api/auth/logout", corsMiddleware(handlers.Logout()))
	http.HandleFunc("/api/auth/me", corsMiddleware(handlers.Me(db)))

	// Events: public list/detail, admin create/update/delete, registration
	http.HandleFunc("/api/events", corsMiddleware(handlers.EventsHandler(db)))
	http.HandleFunc("/api/events/", corsMiddleware(handlers.EventItemHandler(db)))

	// Admin listing (includes inactive events)
	http.HandleFunc("/api/admin/events", corsMiddleware(handlers.RequireAdmin(db, handlers.AdminGetEvents(db))))

	// Registrations by id
	http.HandleFunc("/api/registrations/", corsMiddleware(handlers.RequireAuth(db, handlers.RegistrationItemHandler(db))))

	// Profile
	http.HandleFunc("/api/profile", corsMiddleware(handlers.RequireAuth(db, handlers.ProfileHandler(db))))

	// Dev helpers (disabled in production)
	http.HandleFunc("/api/dev/create-admin", corsMiddleware(handlers.CreateDevAdmin(db)))

	// WebSocket admin feed
	http.HandleFunc("/ws/admin/registrations", websocket.HandleAdminFeed(db))

	// 7. Serve
	fmt.Printf("🚀 Server running on port %s...\n", cfg.ServerPort)
	fmt.Println("")
	fmt.Println("📱 Auth endpoints:")
	fmt.Println("   POST /api/auth/send-otp")
	fmt.Println("   POST /api/auth/verify-otp")
	fmt.Println("   POST /api/auth/complete-profile")
	fmt.Println("   POST /api/auth/logout")
	fmt.Println("   GET  /api/auth/me")
	fmt.Println("")
	fmt.Println("🏃 Event endpoints:")
	fmt.Println("   GET    /api/events               - Upcoming events")
	fmt.Println("   GET    /api/events/{id}          - Event detail")
	fmt.Println("   POST   /api/events               - Create event (admin)")
	fmt.Println("   PUT    /api/events/{id}          - Update event (admin)")
	fmt.Println("   DELETE /api/events/{id}          - Delete event (admin)")
	fmt.Println("   GET    /api/admin/events         - All events (admin)")
	fmt.Println("")
	fmt.Println("📝 Registration endpoints:")
	fmt.Println("   POST   /api/events/{id}/register - Register")
	fmt.Println("   DELETE /api/events/{id}/register - Cancel my registration")
	fmt.Println("   GET    /api/registrations/{id}   - Registration detail")
	fmt.Println("   DELETE /api/registrations/{id}   - Cancel by id")
	fmt.Println("")
	fmt.Println("👤 Profile endpoints:")
	fmt.Println("   GET /api/profile")
	fmt.Println("   PUT /api/profile")
	fmt.Println("")
	fmt.Println("🔌 WebSocket (admin):")
	fmt.Println("   WS /ws/admin/registrations?token=JWT")
	fmt.Println("")
	fmt.Println("🔧 CORS enabled (credentials, echoed origin)")
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, nil))
}

// initSMSSender picks the OTP delivery channel: Kavenegar when configured,
// console logging otherwise.
func initSMSSender() sms.Sender {
	apiKey := os.Getenv("KAVENEGAR_API_KEY")
	template := os.Getenv("KAVENEGAR_TEMPLATE")

	if apiKey == "" || template == "" {
		fmt.Println("⚠️  KAVENEGAR_API_KEY / KAVENEGAR_TEMPLATE not set")
		fmt.Println("   OTP codes will be logged to the console")
		return &sms.ConsoleSender{Log: logger.Log}
	}

	fmt.Println("✅ Kavenegar SMS connected!")
	return sms.NewKavenegarSender(apiKey, template)
}

// initOTPLimiter builds the send-otp rate limiter: Redis-backed when
// REDIS_ADDR is reachable, in-memory otherwise. 3 codes per phone per minute.
func initOTPLimiter(cfg *config.Config) ratelimit.Limiter {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("⚠️  Redis unreachable (%v), falling back to in-memory rate limit", err)
		} else {
			fmt.Println("✅ Redis rate limiter connected!")
			return ratelimit.NewRedisLimiter(client, 3, time.Minute)
		}
	}
	return ratelimit.NewMemoryLimiter(3.0/60.0, 3)
}
