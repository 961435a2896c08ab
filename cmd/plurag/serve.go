package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/plurag/plurag/auth"
	"github.com/plurag/plurag/cache"
	"github.com/plurag/plurag/db"
	cachedelete "github.com/plurag/plurag/handlers/cache/delete"
	chatpost "github.com/plurag/plurag/handlers/chat/post"
	contextpost "github.com/plurag/plurag/handlers/context/post"
	documentspost "github.com/plurag/plurag/handlers/documents/post"
	healthget "github.com/plurag/plurag/handlers/health/get"
	indexpost "github.com/plurag/plurag/handlers/index/post"
	pluget "github.com/plurag/plurag/handlers/plu/get"
	querypost "github.com/plurag/plurag/handlers/query/post"
	searchget "github.com/plurag/plurag/handlers/search/get"
	statsget "github.com/plurag/plurag/handlers/stats/get"
	zonageget "github.com/plurag/plurag/handlers/zonage/get"
	"github.com/plurag/plurag/indexer"
	"github.com/plurag/plurag/planning"
	"github.com/rqlite/gorqlite"
	"github.com/rs/cors"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
)

type ServeCommand struct {
	RqliteURL      string `help:"The URL of the rqlite server." env:"RQLITE_URL" default:"http://localhost:4001"`
	OllamaURL      string `help:"The URL of the Ollama server." env:"OLLAMA_URL" default:"http://127.0.0.1:11434"`
	EmbeddingModel string `help:"The model to use for embeddings." env:"EMBEDDING_MODEL" default:"nomic-embed-text"`
	ChatModel      string `help:"The model to answer with." env:"CHAT_MODEL" default:"mistral"`
	RedisAddr      string `help:"The address of the Redis server." env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string `help:"The Redis password." env:"REDIS_PASSWORD" default:""`
	RedisDB        int    `help:"The Redis database number." env:"REDIS_DB" default:"0"`
	DocumentsDir   string `help:"The directory containing planning documents." env:"DOCUMENTS_DIR" default:"./documents"`
	Partition      string `help:"The partition indexed documents are stored in." env:"PARTITION" default:"urbanisme"`
	MaxContextDocs int    `help:"The maximum number of context documents to use." env:"MAX_CONTEXT_DOCS" default:"5"`
	ListenAddr     string `help:"The address to listen on." env:"LISTEN_ADDR" default:"localhost:9020"`
	TLSCertFile    string `help:"The TLS certificate file." env:"TLS_CERT_FILE" default:""`
	TLSKeyFile     string `help:"The TLS key file." env:"TLS_KEY_FILE" default:""`
	APIKeysFile    string `help:"The file containing a JSON map of API keys to partitions." env:"API_KEYS_FILE" default:"apikeys.json"`
	LogLevel       string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c ServeCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)

	log.Info("connecting to database", slog.String("url", c.RqliteURL))
	databaseURL, err := db.ParseRqliteURL(c.RqliteURL)
	if err != nil {
		return fmt.Errorf("failed to parse rqlite URL: %w", err)
	}
	log.Info("opening database connection", slog.String("url", databaseURL.DataSourceName()))
	conn, err := gorqlite.Open(databaseURL.DataSourceName())
	if err != nil {
		return fmt.Errorf("failed to open connection: %w", err)
	}
	defer conn.Close()
	queries := db.New(conn)

	log.Info("migrating database schema", slog.String("url", databaseURL.MigrateDatabaseURL()))
	if err = db.Migrate(databaseURL); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("connecting to cache", slog.String("addr", c.RedisAddr))
	responses := cache.New(log, c.RedisAddr, c.RedisPassword, c.RedisDB)
	defer responses.Close()
	responses.Connect(ctx)

	log.Info("loading planning data", slog.String("dir", c.DocumentsDir))
	zoning := planning.New(log, c.DocumentsDir)
	if err = zoning.EnsureSampleData(); err != nil {
		return fmt.Errorf("failed to create sample data: %w", err)
	}
	if err = zoning.Load(); err != nil {
		return fmt.Errorf("failed to load zoning data: %w", err)
	}

	log.Info("creating LLM clients")
	httpClient := &http.Client{}
	ec, err := ollama.New(
		ollama.WithModel(c.EmbeddingModel),
		ollama.WithHTTPClient(httpClient),
		ollama.WithServerURL(c.OllamaURL))
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	emb, err := embeddings.NewEmbedder(ec)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	llmc, err := ollama.New(
		ollama.WithModel(c.ChatModel),
		ollama.WithHTTPClient(httpClient),
		ollama.WithServerURL(c.OllamaURL))
	if err != nil {
		return fmt.Errorf("failed to create LLM: %w", err)
	}

	idx := indexer.New(log, queries, emb, c.DocumentsDir, c.Partition)
	go func() {
		if err := idx.Run(context.Background(), false); err != nil {
			log.Error("initial indexing failed", slog.Any("error", err))
		}
	}()

	mux := http.NewServeMux()

	dah := documentspost.New(log, emb, queries)
	mux.Handle("POST /documents", dah)

	qph := querypost.New(log, responses, emb, llmc, queries, zoning, c.MaxContextDocs, c.ChatModel)
	mux.Handle("POST /query", qph)

	cph := contextpost.New(log, emb, queries, c.MaxContextDocs)
	mux.Handle("POST /context", cph)

	chh := chatpost.New(log, llmc)
	mux.Handle("POST /chat", chh)

	zgh := zonageget.New(log, zoning)
	mux.Handle("GET /zonage/{commune}/{parcelle}", zgh)

	pgh := pluget.New(log, zoning)
	mux.Handle("GET /plu/{commune}", pgh)

	dsh := searchget.New(log, zoning)
	mux.Handle("GET /documents/search", dsh)

	sgh := statsget.New(log, responses)
	mux.Handle("GET /stats", sgh)

	cdh := cachedelete.New(log, responses)
	mux.Handle("DELETE /cache", cdh)

	iph := indexpost.New(log, idx)
	mux.Handle("POST /index/refresh", iph)

	apiKeyToPartition, err := auth.LoadFromFile(c.APIKeysFile)
	if err != nil {
		return fmt.Errorf("failed to load API keys: %w", err)
	}
	authenticatedMux := auth.New(apiKeyToPartition, mux)

	// Health stays outside authentication so load balancers can probe it.
	outerMux := http.NewServeMux()
	outerMux.Handle("GET /health", healthget.New(log, responses, queries, c.Partition, c.OllamaURL, idx.Indexed))
	outerMux.Handle("/", authenticatedMux)

	withCORSMux := cors.AllowAll().Handler(outerMux)

	log.Info("Listening", slog.String("addr", c.ListenAddr))
	s := &http.Server{
		Addr:    c.ListenAddr,
		Handler: withCORSMux,
	}
	if c.TLSCertFile != "" && c.TLSKeyFile != "" {
		log.Info("Enabling TLS mode")
		var cert tls.Certificate
		cert, err = tls.LoadX509KeyPair(c.TLSCertFile, c.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("failed to load cert: %w", err)
		}
		s.TLSConfig = &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{cert},
		}
		return s.ListenAndServeTLS(c.TLSCertFile, c.TLSKeyFile)
	}
	return s.ListenAndServe()
}
