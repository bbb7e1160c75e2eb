// Command planner is a CLI client for the weekly planner service.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	u "github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"weekplanner/internal/client"
	"weekplanner/internal/model"
	"weekplanner/internal/view"
)

// ---- config/token store ----

type tokenFile struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "weekplanner")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "weekplanner")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok string) error {
	_ = os.MkdirAll(cfgDir(), 0o700)

	// Expiry comes from the token itself; the claims are not trusted for
	// anything but skipping requests that would 401 anyway.
	exp := time.Now().Add(time.Hour)
	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation(),
	)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	f, err := os.Create(tokenPath())
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{Token: tok, ExpiresAt: exp})
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.Token == "" || time.Now().After(tf.ExpiresAt) {
		return "", errors.New("no valid token (login required)")
	}
	return tf.Token, nil
}

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func authedClient(addr string) *client.Client {
	tok, err := loadToken()
	if err != nil {
		fail(err)
	}
	return client.New(addr, tok)
}

func parseWhen(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad time %q (want RFC3339 or YYYY-MM-DDTHH:MM)", s)
}

func usage() {
	fmt.Fprintf(os.Stderr, `planner CLI
Usage:
  planner -addr URL <cmd> [args]

Commands:
  version
  signup  -email <email> -p <password> -name <name>   (saves token)
  login   -email <email> -p <password>                (saves token)
  me
  week    [-date YYYY-MM-DD] [-user <uuid>]           (renders the 7-day grid)
  add     -name <name> -start <time> -end <time> [-tag t] [-desc d]
  edit    -id <uuid> [-name n] [-start t] [-end t] [-tag t] [-desc d]
  rm      -id <uuid>
  users   [-q substring]
  export  [-o file.ics]
`)
	os.Exit(2)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands against the planner HTTP API.
func main() {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cmd {

	case "version":
		fmt.Printf("planner %s (%s)\n", version, buildDate)

	case "signup":
		fs := flag.NewFlagSet("signup", flag.ExitOnError)
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		name := fs.String("name", "", "display name")
		_ = fs.Parse(flag.Args()[1:])
		if *email == "" || *p == "" || *name == "" {
			fmt.Fprintln(os.Stderr, "need -email, -p and -name")
			os.Exit(1)
		}

		cl := client.New(*addr, "")
		usr, err := cl.Signup(ctx, *email, *p, *name)
		if err != nil {
			fail(err)
		}
		if err := saveToken(cl.Token()); err != nil {
			fail(err)
		}
		printJSON(usr)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(flag.Args()[1:])
		if *email == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -email and -p")
			os.Exit(1)
		}

		cl := client.New(*addr, "")
		if _, err := cl.Login(ctx, *email, *p); err != nil {
			fail(err)
		}
		if err := saveToken(cl.Token()); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "me":
		usr, err := authedClient(*addr).Me(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(usr)

	case "week":
		fs := flag.NewFlagSet("week", flag.ExitOnError)
		date := fs.String("date", "", "reference date YYYY-MM-DD (default today)")
		user := fs.String("user", "", "view another user's calendar (read-only)")
		_ = fs.Parse(flag.Args()[1:])

		ref := time.Now()
		if *date != "" {
			t, err := time.ParseInLocation("2006-01-02", *date, time.Local)
			if err != nil {
				fail(err)
			}
			ref = t
		}

		cl := authedClient(*addr)
		ctrl := view.NewController(cl, 30)
		st := ctrl.NewState(ref)
		if *user != "" {
			uid, err := u.FromString(*user)
			if err != nil {
				fail(fmt.Errorf("bad -user: %w", err))
			}
			ctrl.ViewUser(ctx, st, uid)
		} else {
			ctrl.Refresh(ctx, st)
		}
		if st.LastErr != nil {
			fail(st.LastErr)
		}
		fmt.Print(renderWeek(st))

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		name := fs.String("name", "", "event name")
		start := fs.String("start", "", "start time")
		end := fs.String("end", "", "end time")
		tag := fs.String("tag", string(model.TagWork), "tag")
		desc := fs.String("desc", "", "description")
		_ = fs.Parse(flag.Args()[1:])
		if *name == "" || *start == "" || *end == "" {
			fmt.Fprintln(os.Stderr, "need -name, -start and -end")
			os.Exit(1)
		}
		st, err := parseWhen(*start)
		if err != nil {
			fail(err)
		}
		en, err := parseWhen(*end)
		if err != nil {
			fail(err)
		}

		ev, err := authedClient(*addr).CreateEvent(ctx, model.CreateEventInput{
			Name:          *name,
			Description:   *desc,
			StartDatetime: st,
			EndDatetime:   en,
			Tag:           model.Tag(*tag),
		})
		if err != nil {
			fail(err)
		}
		printJSON(ev)

	case "edit":
		fs := flag.NewFlagSet("edit", flag.ExitOnError)
		id := fs.String("id", "", "event id (uuid)")
		name := fs.String("name", "", "new name")
		start := fs.String("start", "", "new start time")
		end := fs.String("end", "", "new end time")
		tag := fs.String("tag", "", "new tag")
		desc := fs.String("desc", "", "new description")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		evID, err := u.FromString(*id)
		if err != nil {
			fail(fmt.Errorf("bad -id: %w", err))
		}

		// Only flags the user actually passed become part of the patch.
		var upd model.UpdateEventInput
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				upd.Name = name
			case "desc":
				upd.Description = desc
			case "tag":
				t := model.Tag(*tag)
				upd.Tag = &t
			case "start":
				t, err := parseWhen(*start)
				if err != nil {
					fail(err)
				}
				upd.StartDatetime = &t
			case "end":
				t, err := parseWhen(*end)
				if err != nil {
					fail(err)
				}
				upd.EndDatetime = &t
			}
		})
		if upd.Empty() {
			fmt.Fprintln(os.Stderr, "nothing to change")
			os.Exit(1)
		}

		ev, err := authedClient(*addr).UpdateEvent(ctx, evID, upd)
		if err != nil {
			fail(err)
		}
		printJSON(ev)

	case "rm":
		fs := flag.NewFlagSet("rm", flag.ExitOnError)
		id := fs.String("id", "", "event id (uuid)")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		evID, err := u.FromString(*id)
		if err != nil {
			fail(fmt.Errorf("bad -id: %w", err))
		}
		if err := authedClient(*addr).DeleteEvent(ctx, evID); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "users":
		fs := flag.NewFlagSet("users", flag.ExitOnError)
		q := fs.String("q", "", "substring match over name and email")
		_ = fs.Parse(flag.Args()[1:])

		users, err := authedClient(*addr).SearchUsers(ctx, *q)
		if err != nil {
			fail(err)
		}
		printJSON(users)

	case "export":
		fs := flag.NewFlagSet("export", flag.ExitOnError)
		out := fs.String("o", "calendar.ics", "output file")
		_ = fs.Parse(flag.Args()[1:])

		raw, err := authedClient(*addr).ExportICS(ctx, model.EventFilters{})
		if err != nil {
			fail(err)
		}
		if err := os.WriteFile(*out, raw, 0o600); err != nil {
			fail(err)
		}
		fmt.Println(*out)

	default:
		usage()
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
