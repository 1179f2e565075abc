// feed-walker прокручивает ленту через публичный API и печатает итоговое состояние.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/RickkCastro/ElasNoJogo/internal/client"
	"github.com/RickkCastro/ElasNoJogo/internal/feed"
	"github.com/RickkCastro/ElasNoJogo/internal/format"
	logctx "github.com/RickkCastro/ElasNoJogo/pkg/log"
)

// Размер кадра, который сообщается как метаданные каждого слота.
const (
	frameWidth  = 1080
	frameHeight = 1920
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("dotenv_load_failed", slog.String("err", err.Error()))
	}

	var (
		api       string
		token     string
		following bool
		steps     int
		pageSize  int
		verbose   bool
	)

	flag.StringVar(&api, "api", envOr("FEED_API", "http://localhost:8080/api/v1"), "API base url")
	flag.StringVar(&token, "token", os.Getenv("FEED_TOKEN"), "access token (optional)")
	flag.BoolVar(&following, "following", false, "walk the following feed (requires --token)")
	flag.IntVar(&steps, "steps", 15, "number of scroll steps")
	flag.IntVar(&pageSize, "page-size", 0, "page size (0 for default)")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = logctx.Into(ctx, log)

	if err := run(ctx, api, token, following, steps, pageSize); err != nil {
		log.Error("feed_walker_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, api, token string, following bool, steps, pageSize int) error {
	const op = "feed-walker/run"

	log := logctx.From(ctx)

	if following && token == "" {
		return fmt.Errorf("%s: --following requires --token", op)
	}

	cl, err := client.New(client.Options{BaseURL: api, Token: token, Following: following})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var userID uuid.UUID
	if token != "" {
		userID, err = cl.Me(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		log.Info("authenticated", slog.String("user_id", userID.String()))
	}

	opts := feed.DefaultOptions()
	opts.UserID = userID
	opts.Logger = log
	if pageSize > 0 {
		opts.PageSize = pageSize
	}

	c := feed.New(ctx, cl, cl, cl, opts)
	defer c.Close()

	if err := c.Initialize(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	attached := 0
	attach := func() {
		n := len(c.Snapshot().Items)
		for ; attached < n; attached++ {
			c.Attach(attached, &logHandle{index: attached, log: log, paused: true})
		}
	}
	attach()

	for i := 0; i < steps; i++ {
		if ctx.Err() != nil {
			break
		}

		st := c.Snapshot()
		if i >= len(st.Items) {
			log.Info("feed_end_reached", slog.Int("step", i), slog.String("phase", st.Phase.String()))
			break
		}

		entries := []feed.VisibilityEntry{{Index: i, IsIntersecting: true, Ratio: 1}}
		if i > 0 {
			entries = append(entries, feed.VisibilityEntry{Index: i - 1, IsIntersecting: false})
		}
		c.ReportVisible(entries...)

		if i == 0 {
			c.Interact()
		}

		c.Metadata(i, frameWidth, frameHeight)
		c.LoadedData(i)

		d := float64(st.Items[i].DurationSeconds)
		if d <= 0 {
			d = 1
		}
		for _, p := range []float64{0.25, 0.5, 0.85, 1} {
			c.TimeUpdate(i, d*p, d)
		}
		c.Ended(i)

		// Дожидаемся подгрузки, запущенной приближением к концу ленты.
		c.Wait()
		attach()
	}

	c.Wait()
	printSnapshot(os.Stdout, c.Snapshot())

	return nil
}

func printSnapshot(w io.Writer, st feed.State) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "phase: %s\tpage: %d\thas_more: %t\tactive: %d\n", st.Phase, st.LoadedPage, st.HasMore, st.ActiveIndex)
	if st.Err != "" {
		fmt.Fprintf(tw, "error: %s\n", st.Err)
	}

	fmt.Fprintln(tw, "#\tTITLE\tAUTHOR\tDURATION\tVIEWS\tLIKES\tFIT")
	for i, v := range st.Items {
		fmt.Fprintf(tw, "%d\t%s\t@%s\t%s\t%s\t%s\t%s\n",
			i,
			v.Title,
			v.Author.Username,
			format.Duration(v.DurationSeconds),
			format.Views(v.ViewsCount),
			format.Likes(v.LikesCount),
			format.ObjectFit(st.Portrait[i]),
		)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

// logHandle — слот без медиа: пишет команды контроллера в лог.
type logHandle struct {
	index  int
	log    *slog.Logger
	paused bool
	muted  bool
	since  time.Time
}

func (h *logHandle) Play() error {
	h.paused = false
	h.since = time.Now()
	h.log.Debug("slot_play", slog.Int("index", h.index), slog.Bool("muted", h.muted))
	return nil
}

func (h *logHandle) Pause() {
	if !h.paused {
		h.log.Debug("slot_pause", slog.Int("index", h.index), slog.Duration("played", time.Since(h.since)))
	}
	h.paused = true
}

func (h *logHandle) SetMuted(muted bool) {
	h.muted = muted
}

func (h *logHandle) SetPreload(p feed.Preload) {
	h.log.Debug("slot_preload", slog.Int("index", h.index), slog.String("preload", string(p)))
}

func (h *logHandle) Paused() bool { return h.paused }
