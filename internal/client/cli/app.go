package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/mzunohkaru/postboard/internal/client/api"
	"github.com/mzunohkaru/postboard/internal/client/client"
	"github.com/mzunohkaru/postboard/internal/client/config"
	"github.com/mzunohkaru/postboard/internal/client/services"
	"github.com/mzunohkaru/postboard/internal/client/session"
)

type App struct {
	config      *config.Config
	session     *session.Store
	authService services.AuthService
	postService services.PostService
	db          *sql.DB
	reader      *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	storage, db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	store := session.NewStore(storage)

	apiClient, err := api.NewClient(c.ServerURL, store, c.RequestTimeout)
	if err != nil {
		db.Close()
		return nil, err
	}

	as := services.NewAuthService(apiClient, store)
	ps := services.NewPostService(apiClient)

	return &App{
		config:      c,
		session:     store,
		authService: as,
		postService: ps,
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.Root(ctx)
}
