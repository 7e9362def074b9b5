package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizmania-service/internal/app"
	"quizmania-service/internal/auth"
	"quizmania-service/internal/config"
	"quizmania-service/internal/infra/memory"
	"quizmania-service/internal/infra/postgres"
	rediscache "quizmania-service/internal/infra/redis"
	"quizmania-service/internal/mail"
	transport "quizmania-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

type stores struct {
	questions app.QuestionRepository
	quizzes   app.QuizRepository
	scores    app.ScoreRepository
	users     app.UserRepository
	tokens    app.TokenRepository
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	st := newStores(pool)

	questionTTL := config.TTLDuration(cfg.Questions.CacheTTL, 10*time.Minute)
	var questions app.QuestionRepository
	if redisClient != nil {
		questions = rediscache.NewQuestionCache(redisClient, st.questions, questionTTL)
		st.tokens = rediscache.NewTokenStore(redisClient)
	} else {
		questions = memory.NewQuestionCache(st.questions, questionTTL)
	}

	jwt, err := auth.NewJWT(cfg.Auth.JWTSecret, config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))
	if err != nil {
		return fmt.Errorf("auth.jwtSecret: %w", err)
	}

	var mailer app.Mailer = mail.LogMailer{}
	if cfg.Mail.Host != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
		})
	}

	appURL := cfg.Server.AppURL
	if appURL == "" {
		appURL = "http://localhost:" + finalPort + "/auth"
	}
	users := app.NewUserService(st.users, st.tokens, auth.NewBcrypt(cfg.Auth.BcryptCost), jwt, mailer, app.UserServiceConfig{
		AppURL:   appURL,
		From:     cfg.Mail.From,
		TokenTTL: config.TTLDuration(cfg.Auth.ConfirmTTL, 24*time.Hour),
	})
	scores := app.NewScoreService(st.scores, questions, st.quizzes, st.users)
	statistics := app.NewStatisticsService(scores)

	handler := transport.NewHandler(transport.Services{
		Users:      users,
		Questions:  app.NewQuestionService(questions, st.scores),
		Quizzes:    app.NewQuizService(st.quizzes, questions),
		Scores:     scores,
		Statistics: statistics,
		Feed:       app.NewRankingFeed(statistics),
		Tokens:     jwt,
	}, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quizmania on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newStores picks Postgres when a pool is configured and in-memory maps otherwise.
func newStores(pool *pgxpool.Pool) stores {
	if pool != nil {
		return stores{
			questions: postgres.NewQuestionStore(pool),
			quizzes:   postgres.NewQuizStore(pool),
			scores:    postgres.NewScoreStore(pool),
			users:     postgres.NewUserStore(pool),
			tokens:    postgres.NewTokenStore(pool),
		}
	}
	log.Printf("postgres not configured, using in-memory storage")
	return stores{
		questions: memory.NewQuestionStore(),
		quizzes:   memory.NewQuizStore(),
		scores:    memory.NewScoreStore(),
		users:     memory.NewUserStore(),
		tokens:    memory.NewTokenStore(),
	}
}
