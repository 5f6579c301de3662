package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/todorpc/internal/client"
	"github.com/amirhosseinghanipour/todorpc/internal/config"
	"github.com/amirhosseinghanipour/todorpc/internal/schema"
)

func main() {
	baseURL := flag.String("url", "", "server base URL (default: NEXT_PUBLIC_API_URL, EXPO_PUBLIC_API_URL, http://localhost:4000)")
	timeout := flag.Duration("timeout", client.DefaultTimeout, "per-call timeout")
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	c := client.New(client.Config{
		BaseURL: *baseURL,
		Headers: client.HeaderFunc(func(ctx context.Context) (map[string]string, error) {
			h := map[string]string{}
			// read per call so a token refreshed by another process is picked up
			if tok := os.Getenv("TODO_ACCESS_TOKEN"); tok != "" {
				h["Authorization"] = "Bearer " + tok
			}
			if cfg.Supabase.AnonKey != "" {
				h["apikey"] = cfg.Supabase.AnonKey
			}
			return h, nil
		}),
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	out, err := run(ctx, c, args[0], args[1:])
	if err != nil {
		if e, ok := client.AsError(err); ok {
			log.Error().Str("code", e.Code).Int("status", e.Status).Interface("issues", e.Issues).Msg(e.Message)
		} else {
			log.Error().Err(err).Str("url", c.BaseURL()).Msg("call failed")
		}
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func run(ctx context.Context, c *client.Client, cmd string, args []string) (interface{}, error) {
	switch cmd {
	case "health":
		return c.Health(ctx)

	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		completed := fs.String("completed", "", "filter: true or false")
		limit := fs.Int("limit", schema.DefaultListLimit, "page size (1-100)")
		offset := fs.Int("offset", 0, "rows to skip")
		_ = fs.Parse(args)
		in := schema.ListInput{Limit: limit, Offset: offset}
		if *completed != "" {
			b, err := strconv.ParseBool(*completed)
			if err != nil {
				return nil, fmt.Errorf("-completed: %w", err)
			}
			in.Completed = &b
		}
		return c.Todos.List(ctx, in)

	case "get":
		id, err := oneArg(cmd, args)
		if err != nil {
			return nil, err
		}
		return c.Todos.Get(ctx, id)

	case "create":
		if len(args) == 0 {
			return nil, fmt.Errorf("create: text argument required")
		}
		return c.Todos.Create(ctx, schema.CreateInput{Text: strings.Join(args, " ")})

	case "update":
		fs := flag.NewFlagSet("update", flag.ExitOnError)
		text := fs.String("text", "", "new text")
		completed := fs.String("completed", "", "true or false")
		_ = fs.Parse(args)
		id, err := oneArg(cmd, fs.Args())
		if err != nil {
			return nil, err
		}
		in := schema.UpdateInput{ID: id}
		fs.Visit(func(f *flag.Flag) {
			if f.Name == "text" {
				in.Text = text
			}
		})
		if *completed != "" {
			b, err := strconv.ParseBool(*completed)
			if err != nil {
				return nil, fmt.Errorf("-completed: %w", err)
			}
			in.Completed = &b
		}
		return c.Todos.Update(ctx, in)

	case "delete":
		id, err := oneArg(cmd, args)
		if err != nil {
			return nil, err
		}
		return c.Todos.Delete(ctx, id)
	}
	usage()
	os.Exit(1)
	return nil, nil
}

func oneArg(cmd string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s: exactly one id argument required", cmd)
	}
	return args[0], nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: todoctl [-url URL] [-timeout %s] <command> [args]

Commands:
  health                                   Check the server
  list [-completed B] [-limit N] [-offset N]
  get <id>
  create <text...>
  update [-text T] [-completed B] <id>
  delete <id>

Environment:
  TODO_ACCESS_TOKEN                        Bearer token sent as Authorization
  NEXT_PUBLIC_SUPABASE_ANON_KEY            Sent as apikey (EXPO_PUBLIC_ fallback)
`, client.DefaultTimeout)
}
