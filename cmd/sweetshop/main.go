// Command sweetshop is the terminal storefront for the sweet shop
// backend: browse the catalog, manage a locally persisted cart, check
// out, and administer inventory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/AdY21850/sweet-shop-manager/internal/api"
	"github.com/AdY21850/sweet-shop-manager/internal/auth"
	"github.com/AdY21850/sweet-shop-manager/internal/cart"
	"github.com/AdY21850/sweet-shop-manager/internal/catalog"
	"github.com/AdY21850/sweet-shop-manager/internal/checkout"
	"github.com/AdY21850/sweet-shop-manager/internal/config"
	"github.com/AdY21850/sweet-shop-manager/internal/domain"
)

const usage = `usage: sweetshop <command> [flags]

catalog:
  sweets [query]        list the catalog, optionally filtered by name
  search               search server-side (-name, -category, -min, -max)
  hero                 show the current storefront banner

cart:
  cart                 show the cart with subtotal, tax, shipping, total
  cart-add <id>        add one unit of a sweet to the cart
  cart-update <id> <delta>  adjust a line item's quantity
  cart-remove <id>     remove a line item
  cart-clear           empty the cart
  checkout             place the order

account:
  login                log in (-email, -password)
  register             create an account (-username, -email, -password)
  logout               log out
  whoami               show the logged-in user

admin:
  sweet-add            create a sweet (-name, -category, -price, -qty, -image, -desc)
  sweet-update <id>    update a sweet (same flags)
  sweet-delete <id>    delete a sweet
`

type app struct {
	cfg      *config.Config
	client   *api.Client
	session  *auth.Session
	accounts *auth.Service
	catalog  *catalog.Service
	cart     *cart.Store
	log      logrus.FieldLogger
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if err := run(os.Args[1:], log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(args []string, log *logrus.Logger) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	cfg := config.Load()

	session, err := auth.LoadSession(cfg.StateDir, log)
	if err != nil {
		return err
	}
	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout, session, log)

	mirror, err := cart.NewFileMirror(cfg.StateDir)
	if err != nil {
		return err
	}
	store, err := cart.NewStore(mirror, log)
	if err != nil {
		return err
	}

	a := &app{
		cfg:      cfg,
		client:   client,
		session:  session,
		accounts: auth.NewService(client, session, log),
		catalog:  catalog.NewService(client, log),
		cart:     store,
		log:      log,
	}

	ctx := context.Background()
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "sweets":
		return a.listSweets(ctx, rest)
	case "search":
		return a.searchSweets(ctx, rest)
	case "hero":
		return a.showHero(ctx)
	case "cart":
		return a.showCart()
	case "cart-add":
		return a.cartAdd(ctx, rest)
	case "cart-update":
		return a.cartUpdate(rest)
	case "cart-remove":
		return a.cartRemove(rest)
	case "cart-clear":
		return a.cart.Clear()
	case "checkout":
		return a.placeOrder(ctx)
	case "login":
		return a.login(ctx, rest)
	case "register":
		return a.register(ctx, rest)
	case "logout":
		return a.accounts.Logout()
	case "whoami":
		return a.whoami()
	case "sweet-add":
		return a.sweetAdd(ctx, rest)
	case "sweet-update":
		return a.sweetUpdate(ctx, rest)
	case "sweet-delete":
		return a.sweetDelete(ctx, rest)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) listSweets(ctx context.Context, args []string) error {
	if _, err := a.catalog.Load(ctx); err != nil {
		return err
	}
	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	printSweets(a.catalog.Filter(query))
	return nil
}

func (a *app) searchSweets(ctx context.Context, args []string) error {
	q, err := parseSearchQuery(args)
	if err != nil {
		return err
	}
	sweets, err := a.catalog.Search(ctx, q)
	if err != nil {
		return err
	}
	printSweets(sweets)
	return nil
}

// parseSearchQuery maps the search flags onto a query. A price bound is
// only forwarded when its flag was given on the command line, so a
// min-only search does not smuggle in maxPrice=0.
func parseSearchQuery(args []string) (api.SearchQuery, error) {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	name := fs.String("name", "", "match sweet name")
	category := fs.String("category", "", "match category")
	min := fs.Float64("min", 0, "minimum price")
	max := fs.Float64("max", 0, "maximum price")
	if err := fs.Parse(args); err != nil {
		return api.SearchQuery{}, err
	}

	q := api.SearchQuery{Name: *name, Category: *category}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min":
			q.MinPrice = min
		case "max":
			q.MaxPrice = max
		}
	})
	return q, nil
}

func (a *app) showHero(ctx context.Context) error {
	hero, err := a.client.ActiveHero(ctx)
	if err != nil {
		return err
	}
	if hero == nil {
		fmt.Println("no active banner")
		return nil
	}
	fmt.Printf("%s\n%s\n", hero.Title, hero.Description)
	return nil
}

func (a *app) showCart() error {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("Your cart is empty.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tQTY\tLINE TOTAL")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%.0f\t%d\t%.0f\n", item.ID, item.Name, item.Price, item.Quantity, item.LineTotal())
	}
	w.Flush()

	quote := a.cfg.Calculator().Quote(items)
	fmt.Printf("\nSubtotal: %s\nTax:      %s\nShipping: %s\nTotal:    %s\n",
		quote.Subtotal, quote.Tax, quote.Shipping, quote.Total)
	return nil
}

func (a *app) cartAdd(ctx context.Context, args []string) error {
	id, err := parseID(args, "cart-add")
	if err != nil {
		return err
	}
	sweets, err := a.catalog.Load(ctx)
	if err != nil {
		return err
	}
	for _, sweet := range sweets {
		if sweet.ID != id {
			continue
		}
		if sweet.Quantity <= 0 {
			return fmt.Errorf("%q is out of stock", sweet.Name)
		}
		if err := a.cart.Add(sweet); err != nil {
			return err
		}
		fmt.Printf("added %s (cart has %d items)\n", sweet.Name, a.cart.Count())
		return nil
	}
	return fmt.Errorf("no sweet with id %d", id)
}

func (a *app) cartUpdate(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: sweetshop cart-update <id> <delta>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}
	delta, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid delta %q", args[1])
	}
	return a.cart.UpdateQuantity(id, delta)
}

func (a *app) cartRemove(args []string) error {
	id, err := parseID(args, "cart-remove")
	if err != nil {
		return err
	}
	return a.cart.Remove(id)
}

func (a *app) placeOrder(ctx context.Context) error {
	sub := checkout.NewSubmitter(a.client, a.cart, a.cfg.Calculator(), a.log)
	receipt, err := sub.PlaceOrder(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Order %s placed successfully! Total: %s\n", receipt.OrderID, receipt.Quote.Total)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}
	return a.accounts.Login(ctx, *email, *password)
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" || *password == "" {
		return fmt.Errorf("register requires -username, -email and -password")
	}
	return a.accounts.Register(ctx, *username, *email, *password)
}

func (a *app) whoami() error {
	user := a.session.User()
	if user == nil {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s <%s> (%s)\n", user.Username, user.Email, user.Role)
	return nil
}

func (a *app) sweetAdd(ctx context.Context, args []string) error {
	input, _, err := parseSweetInput("sweet-add", args, false)
	if err != nil {
		return err
	}
	return a.catalog.AddSweet(ctx, input)
}

func (a *app) sweetUpdate(ctx context.Context, args []string) error {
	input, id, err := parseSweetInput("sweet-update", args, true)
	if err != nil {
		return err
	}
	return a.catalog.UpdateSweet(ctx, id, input)
}

func (a *app) sweetDelete(ctx context.Context, args []string) error {
	id, err := parseID(args, "sweet-delete")
	if err != nil {
		return err
	}
	return a.catalog.DeleteSweet(ctx, id)
}

func parseSweetInput(cmd string, args []string, wantID bool) (domain.SweetInput, int64, error) {
	var id int64
	if wantID {
		parsed, err := parseID(args, cmd)
		if err != nil {
			return domain.SweetInput{}, 0, err
		}
		id = parsed
		args = args[1:]
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	name := fs.String("name", "", "sweet name")
	category := fs.String("category", "", "category")
	price := fs.Float64("price", 0, "unit price")
	qty := fs.Int("qty", 0, "stock quantity")
	image := fs.String("image", "", "image URL")
	desc := fs.String("desc", "", "description")
	if err := fs.Parse(args); err != nil {
		return domain.SweetInput{}, 0, err
	}

	return domain.SweetInput{
		Name:        *name,
		Category:    *category,
		Price:       *price,
		Quantity:    *qty,
		ImageURL:    *image,
		Description: *desc,
	}, id, nil
}

func parseID(args []string, cmd string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("usage: sweetshop %s <id>", cmd)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func printSweets(sweets []domain.Sweet) {
	if len(sweets) == 0 {
		fmt.Println("No sweets found")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, sweet := range sweets {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.0f\t%d\n", sweet.ID, sweet.Name, sweet.Category, sweet.Price, sweet.Quantity)
	}
	w.Flush()
}
