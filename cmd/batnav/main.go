package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"batnav/internal/app"
	"batnav/internal/codec"
	"batnav/internal/config"
	"batnav/internal/console"
	"batnav/internal/game"
	"batnav/internal/leaderboard"
	"batnav/internal/match"
	"batnav/internal/server"
	"batnav/internal/zk"
)

func main() {
	cmd, args := "play", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}
	var err error
	switch cmd {
	case "play":
		err = cmdPlay(args)
	case "serve":
		err = cmdServe(args)
	case "charts":
		err = cmdCharts(args)
	case "init":
		err = cmdInit(args)
	case "commit":
		err = cmdCommit(args)
	case "shoot":
		err = cmdShoot(args)
	case "verify":
		err = cmdVerify(args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "batnav:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`Batnav, naval combat against the computer

Commands:
  play   [--config batnav.yaml] [--charts FILE] [--prove --keys ./keys]   (default)
  serve  [--addr :8080] [--charts FILE] [--prove --keys ./keys]
  charts --size N [--charts FILE]
  init   --size N --out layout.json
  commit --layout layout.json --secret secret.json --keys ./keys
  shoot  --secret secret.json --keys ./keys --coord B5 --out proof.json
  verify --vk ./keys/shot.vk --root ROOT_HEX --proof proof.json --coord B5`)
}

// common holds the settings shared by play, serve and charts.
type common struct {
	configPath string
	charts     string
	level      string
	keys       string
	prove      bool
	seed       int64
}

func (c *common) bind(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML config file")
	fs.StringVar(&c.charts, "charts", "", "leaderboard file")
	fs.StringVar(&c.level, "log", "", "log level: debug|info|warn|error")
	fs.StringVar(&c.keys, "keys", "", "proving keys directory")
	fs.BoolVar(&c.prove, "prove", false, "back every computer answer with a zero-knowledge proof")
	fs.Int64Var(&c.seed, "seed", 0, "random seed (0 picks one from the clock)")
}

// resolve applies flags that were set on top of the config file.
func (c *common) resolve(fs *flag.FlagSet, defLevel string) (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.configPath == "" {
		cfg.LogLevel = defLevel
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "charts":
			cfg.ChartsFile = c.charts
		case "log":
			cfg.LogLevel = c.level
		case "keys":
			cfg.KeysDir = c.keys
		case "prove":
			cfg.Prove = c.prove
		}
	})
	return cfg, cfg.Validate()
}

func (c *common) rng() *rand.Rand {
	seed := c.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func newLogger(level string) zerolog.Logger {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger()
}

func cmdPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	var c common
	c.bind(fs)
	_ = fs.Parse(args)

	cfg, err := c.resolve(fs, "warn")
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	sess := &match.Session{
		UI:    console.NewPrompter(os.Stdin, os.Stdout),
		Store: leaderboard.NewFileStore(cfg.ChartsFile, log),
		Rng:   c.rng(),
		Log:   log,
		Limit: cfg.ChartsMax,
	}
	if cfg.Prove {
		prover, err := zk.NewProver(cfg.KeysDir)
		if err != nil {
			return fmt.Errorf("prepare proving keys: %w", err)
		}
		sess.NewReferee = func(m *match.Match) (match.Referee, error) {
			return app.NewAuditor(prover, m.Computer.Board, m.Computer.Fleet, log)
		}
	}
	fmt.Println("Welcome to Batnav! Type 'Q' at any prompt to quit.")
	err = sess.Run()
	if errors.Is(err, game.ErrQuit) {
		return nil
	}
	return err
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var c common
	c.bind(fs)
	addr := fs.String("addr", "", "listen address")
	_ = fs.Parse(args)

	cfg, err := c.resolve(fs, "info")
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	log := newLogger(cfg.LogLevel)

	srv := server.New(leaderboard.NewFileStore(cfg.ChartsFile, log), c.rng(), log)
	srv.Limit = cfg.ChartsMax
	if cfg.Prove {
		if srv.Prover, err = zk.NewProver(cfg.KeysDir); err != nil {
			return fmt.Errorf("prepare proving keys: %w", err)
		}
	}
	mux := http.NewServeMux()
	srv.Routes(mux)
	log.Info().Str("addr", cfg.Addr).Bool("prove", cfg.Prove).Msg("serving")
	return http.ListenAndServe(cfg.Addr, server.WithLogging(log, server.WithCORS(mux)))
}

func cmdCharts(args []string) error {
	fs := flag.NewFlagSet("charts", flag.ExitOnError)
	var c common
	c.bind(fs)
	size := fs.Int("size", 0, "grid size")
	_ = fs.Parse(args)

	cfg, err := c.resolve(fs, "warn")
	if err != nil {
		return err
	}
	if *size < game.MinSize || *size > game.MaxSize {
		return fmt.Errorf("--size must be between %d and %d", game.MinSize, game.MaxSize)
	}
	lb, err := leaderboard.NewFileStore(cfg.ChartsFile, newLogger(cfg.LogLevel)).Read()
	if err != nil {
		return err
	}
	if len(lb.For(*size)) == 0 {
		fmt.Printf("No results yet for %dx%d.\n", *size, *size)
		return nil
	}
	fmt.Print(lb.Table(*size))
	return nil
}

func cmdInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	size := fs.Int("size", 10, "grid size")
	out := fs.String("out", "layout.json", "output layout file")
	seed := fs.Int64("seed", 0, "random seed (0 picks one from the clock)")
	_ = fs.Parse(args)

	c := common{seed: *seed}
	l, err := app.InitLayout(*size, c.rng())
	if err != nil {
		return err
	}
	if err := saveJSON(*out, l); err != nil {
		return err
	}
	fmt.Println("✓ wrote", *out)
	return nil
}

func cmdCommit(args []string) error {
	fs := flag.NewFlagSet("commit", flag.ExitOnError)
	layoutPath := fs.String("layout", "layout.json", "layout file")
	secretPath := fs.String("secret", "secret.json", "defender secret state")
	keysDir := fs.String("keys", "./keys", "keys directory")
	_ = fs.Parse(args)

	var l codec.Layout
	if err := loadJSON(*layoutPath, &l); err != nil {
		return err
	}
	res, err := app.Commit(l)
	if err != nil {
		return err
	}
	if err := zk.EnsureShotKeys(*keysDir); err != nil {
		return err
	}
	if err := saveJSON(*secretPath, &res.Secret); err != nil {
		return err
	}
	fmt.Println("ROOT:", res.RootHex)
	fmt.Println("✓ wrote", *secretPath)
	return nil
}

func cmdShoot(args []string) error {
	fs := flag.NewFlagSet("shoot", flag.ExitOnError)
	secretPath := fs.String("secret", "secret.json", "defender secret state")
	keysDir := fs.String("keys", "./keys", "keys directory")
	coord := fs.String("coord", "", "target cell, e.g. B5")
	out := fs.String("out", "proof.json", "proof output")
	_ = fs.Parse(args)

	var sec codec.Secret
	if err := loadJSON(*secretPath, &sec); err != nil {
		return err
	}
	c, err := game.ParseCoord(*coord, sec.Layout.Size)
	if err != nil {
		return fmt.Errorf("--coord %q: %w", *coord, err)
	}
	prover, err := zk.NewProver(*keysDir)
	if err != nil {
		return err
	}
	res, err := app.Shoot(prover, sec, c)
	if err != nil {
		return err
	}
	if err := saveJSON(*out, &res.Payload); err != nil {
		return err
	}
	fmt.Printf("✓ wrote %s (result: %s)\n", *out, hitWord(res.Bit))
	return nil
}

func cmdVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	vkPath := fs.String("vk", "./keys/shot.vk", "verifying key file")
	rootHex := fs.String("root", "", "root hex prefixed 0x")
	proofPath := fs.String("proof", "proof.json", "proof payload json")
	coord := fs.String("coord", "", "cell the proof must answer, e.g. B5")
	size := fs.Int("size", 10, "grid size the coordinate refers to")
	_ = fs.Parse(args)

	if *rootHex == "" {
		return errors.New("--root required")
	}
	root, err := app.ParseHex(*rootHex)
	if err != nil {
		return err
	}
	var payload codec.ShotProofPayload
	if err := loadJSON(*proofPath, &payload); err != nil {
		return err
	}
	if *coord != "" {
		c, err := game.ParseCoord(*coord, *size)
		if err != nil {
			return fmt.Errorf("--coord %q: %w", *coord, err)
		}
		if want := c.Row*(*size) + c.Col; payload.Public.Index != want {
			return fmt.Errorf("proof is for cell index %d but %s is %d", payload.Public.Index, c.Label(*size), want)
		}
	}
	res, err := app.VerifyWithRoot(*vkPath, root, payload)
	if err != nil {
		return err
	}
	if !res.Valid {
		return errors.New("invalid proof")
	}
	fmt.Println(hitWord(res.Hit))
	return nil
}

func hitWord(bit uint8) string {
	if bit == 1 {
		return "HIT"
	}
	return "MISS"
}

func saveJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loadJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}
