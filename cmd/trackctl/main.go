package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dom/media-tracker/internal/domain"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	apiURL := "http://localhost:7000"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	client, err := NewAPIClient(apiURL)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "signup":
		err = signupCmd(client, args)
	case "login":
		err = loginCmd(client, args)
	case "list":
		err = listCmd(client, args)
	case "track":
		err = trackCmd(client, args)
	case "rate":
		err = rateCmd(client, args)
	case "untrack":
		err = untrackCmd(client, args)
	case "seed":
		err = seedCmd(client, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`trackctl - command line client for the media tracker API

USAGE:
  trackctl <command> [options]

COMMANDS:
  signup    Create an account
  login     Check credentials and print the account
  list      List tracked items of a kind
  track     Start tracking a catalog id
  rate      Set rating, status and notes of a tracked item
  untrack   Stop tracking a catalog id
  seed      Create a demo account with a few tracked items
  help      Show this help message

Every command except signup and seed logs in first using --email and
--password (or TRACKCTL_EMAIL and TRACKCTL_PASSWORD).

ENVIRONMENT:
  API_URL   Backend URL (default: http://localhost:7000)

EXAMPLES:
  trackctl signup --name=Ann --email=ann@example.com --password=password123
  trackctl track --kind=movie --id=550
  trackctl rate --kind=movie --id=550 --rating=9 --status=completed
  trackctl list --kind=tv-show --limit=10 --page=1
  trackctl seed --count=5`)
}

// credentialFlags registers the login flags shared by most commands.
func credentialFlags(fs *flag.FlagSet) (email, password *string) {
	email = fs.String("email", os.Getenv("TRACKCTL_EMAIL"), "Account email")
	password = fs.String("password", os.Getenv("TRACKCTL_PASSWORD"), "Account password")
	return email, password
}

func kindFlag(fs *flag.FlagSet) *string {
	return fs.String("kind", string(domain.VariantMovie), "One of movie, tv-show, game")
}

func parseKind(kind string) (domain.Variant, error) {
	v := domain.Variant(strings.ToLower(kind))
	if !v.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidVariant, kind)
	}
	return v, nil
}

func signupCmd(client *APIClient, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "Display name")
	email, password := credentialFlags(fs)
	fs.Parse(args)

	user, err := client.Signup(*name, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s <%s> (id %s)\n", user.Name, user.Email, user.ID)
	return nil
}

func loginCmd(client *APIClient, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email, password := credentialFlags(fs)
	fs.Parse(args)

	user, err := client.Login(*email, *password)
	if err != nil {
		return err
	}
	printUser(user)
	return nil
}

func listCmd(client *APIClient, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	email, password := credentialFlags(fs)
	kind := kindFlag(fs)
	limit := fs.Int("limit", 0, "Page size (requires --page)")
	page := fs.Int("page", 0, "Page number starting at 1 (requires --limit)")
	fs.Parse(args)

	v, err := parseKind(*kind)
	if err != nil {
		return err
	}
	if _, err := client.Login(*email, *password); err != nil {
		return err
	}

	items, err := client.List(v, *limit, *page)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d):\n", v.PluralDisplayName(), len(items))
	for _, item := range items {
		printItem(item)
	}
	return nil
}

func trackCmd(client *APIClient, args []string) error {
	fs := flag.NewFlagSet("track", flag.ExitOnError)
	email, password := credentialFlags(fs)
	kind := kindFlag(fs)
	id := fs.String("id", "", "Catalog id")
	fs.Parse(args)

	v, err := parseKind(*kind)
	if err != nil {
		return err
	}
	if *id == "" {
		return errors.New("--id is required")
	}
	if _, err := client.Login(*email, *password); err != nil {
		return err
	}

	item, err := client.Track(v, *id)
	if err != nil {
		return err
	}
	fmt.Printf("Tracking %s %s\n", v.DisplayName(), item.CatalogID)
	return nil
}

func rateCmd(client *APIClient, args []string) error {
	fs := flag.NewFlagSet("rate", flag.ExitOnError)
	email, password := credentialFlags(fs)
	kind := kindFlag(fs)
	id := fs.String("id", "", "Catalog id")
	rating := fs.Float64("rating", -1, "Rating (omit to clear)")
	status := fs.String("status", "", "Status (omit to clear)")
	notes := fs.String("notes", "", "Notes (omit to clear)")
	fs.Parse(args)

	v, err := parseKind(*kind)
	if err != nil {
		return err
	}
	if *id == "" {
		return errors.New("--id is required")
	}

	var update ItemUpdate
	if *rating >= 0 {
		update.Rating = rating
	}
	if *status != "" {
		if !v.AllowsStatus(domain.Status(*status)) {
			return fmt.Errorf("%w %q for %s; allowed: %v", domain.ErrInvalidStatus, *status, v, v.Statuses())
		}
		update.Status = status
	}
	if *notes != "" {
		update.Notes = notes
	}

	if _, err := client.Login(*email, *password); err != nil {
		return err
	}

	item, err := client.Update(v, *id, update)
	if err != nil {
		return err
	}
	printItem(*item)
	return nil
}

func untrackCmd(client *APIClient, args []string) error {
	fs := flag.NewFlagSet("untrack", flag.ExitOnError)
	email, password := credentialFlags(fs)
	kind := kindFlag(fs)
	id := fs.String("id", "", "Catalog id")
	fs.Parse(args)

	v, err := parseKind(*kind)
	if err != nil {
		return err
	}
	if *id == "" {
		return errors.New("--id is required")
	}
	if _, err := client.Login(*email, *password); err != nil {
		return err
	}

	if err := client.Untrack(v, *id); err != nil {
		return err
	}
	fmt.Printf("Stopped tracking %s %s\n", v.DisplayName(), *id)
	return nil
}

// seedCatalog holds well known catalog ids used for demo data.
var seedCatalog = map[domain.Variant][]string{
	domain.VariantMovie:  {"550", "13", "680", "155", "27205"},
	domain.VariantTvShow: {"1399", "1396", "66732", "94605", "60625"},
	domain.VariantGame:   {"1942", "7346", "119133", "1020", "472"},
}

func seedCmd(client *APIClient, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	count := fs.Int("count", 3, "Items to track per kind (1-5)")
	password := fs.String("password", "demopassword123", "Password of the demo account")
	fs.Parse(args)

	if *count < 1 || *count > 5 {
		return errors.New("--count must be between 1 and 5")
	}

	suffix := time.Now().UnixNano() % 100000
	email := fmt.Sprintf("demo_%d@example.com", suffix)

	fmt.Print("Creating demo account... ")
	user, err := client.Signup(fmt.Sprintf("Demo %d", suffix), email, *password)
	if err != nil {
		fmt.Println("FAILED")
		return err
	}
	fmt.Printf("OK (%s)\n", user.Email)

	for _, v := range domain.AllVariants {
		statuses := v.Statuses()
		for i, id := range seedCatalog[v][:*count] {
			if _, err := client.Track(v, id); err != nil {
				return err
			}
			rating := float64(6 + i%5)
			status := string(statuses[i%len(statuses)])
			if _, err := client.Update(v, id, ItemUpdate{Rating: &rating, Status: &status}); err != nil {
				return err
			}
		}
		fmt.Printf("  Tracked %d %s\n", *count, strings.ToLower(v.PluralDisplayName()))
	}

	fmt.Println()
	fmt.Printf("Log in with --email=%s --password=%s\n", email, *password)
	return nil
}

func printUser(user *User) {
	fmt.Printf("%s <%s> (id %s)\n", user.Name, user.Email, user.ID)
	fmt.Printf("  movies: %d  tv shows: %d  games: %d\n", len(user.Movies), len(user.TvShows), len(user.Games))
}

func printItem(item Item) {
	line := "  " + item.CatalogID
	if item.Status != nil {
		line += "  [" + *item.Status + "]"
	}
	if item.Rating != nil {
		line += fmt.Sprintf("  %.1f", *item.Rating)
	}
	if item.Notes != nil {
		line += "  " + *item.Notes
	}
	fmt.Println(line)
}
