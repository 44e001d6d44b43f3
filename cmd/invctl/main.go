package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"InventoryService/internal/model"
	"InventoryService/pkg/client"
)

// usage печатает справку по подкомандам
func usage() {
	fmt.Fprintf(os.Stderr, `Usage: invctl [-addr URL] <command> [flags]

Commands:
  list        list items with optional filters
  get         get a single item by id
  create      create a new item
  update      update item fields (only provided flags are sent)
  delete      delete an item (asks for confirmation)
  search      quick search by title or description
  categories  list distinct categories
`)
	os.Exit(2)
}

func main() {
	addr := flag.String("addr", envOr("INVENTORY_ADDR", "http://localhost:8080"), "inventory service base URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}

	c := client.New(*addr)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch flag.Arg(0) {
	case "list":
		err = runList(ctx, c, flag.Args()[1:])
	case "get":
		err = runGet(ctx, c, flag.Args()[1:])
	case "create":
		err = runCreate(ctx, c, flag.Args()[1:])
	case "update":
		err = runUpdate(ctx, c, flag.Args()[1:])
	case "delete":
		err = runDelete(ctx, c, flag.Args()[1:])
	case "search":
		err = runSearch(ctx, c, flag.Args()[1:])
	case "categories":
		err = runCategories(ctx, c)
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "invctl: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func runList(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "items per page")
	search := fs.String("search", "", "filter by title or description")
	category := fs.String("category", "", "filter by category")
	status := fs.String("status", "", "filter by status (ACTIVE, INACTIVE, DISCONTINUED)")
	_ = fs.Parse(args)

	items, pg, err := c.List(ctx, model.ListParams{
		Page:     *page,
		Limit:    *limit,
		Search:   *search,
		Category: *category,
		Status:   model.Status(*status),
	})
	if err != nil {
		return err
	}
	printItems(items)
	fmt.Printf("page %d/%d, total %d\n", pg.Page, pg.TotalPages, pg.Total)
	return nil
}

func runGet(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: invctl get <id>")
	}
	it, err := c.Get(ctx, args[0])
	if err != nil {
		return err
	}
	printItem(it)
	return nil
}

func runCreate(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	title := fs.String("title", "", "item title (required)")
	description := fs.String("description", "", "item description")
	category := fs.String("category", "", "item category")
	price := fs.Float64("price", 0, "item price (required)")
	quantity := fs.Int("quantity", 0, "item quantity (required)")
	tags := fs.String("tags", "", "comma-separated tags")
	status := fs.String("status", "", "item status")
	_ = fs.Parse(args)

	in := model.CreateItemInput{
		Title:    *title,
		Category: *category,
		Price:    *price,
		Quantity: *quantity,
		Status:   model.Status(*status),
	}
	if *description != "" {
		in.Description = description
	}
	if *tags != "" {
		in.Tags = strings.Split(*tags, ",")
	}
	it, err := c.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("created %s\n", it.ID)
	printItem(it)
	return nil
}

func runUpdate(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	title := fs.String("title", "", "new title")
	description := fs.String("description", "", "new description")
	clearDescription := fs.Bool("clear-description", false, "remove the description")
	category := fs.String("category", "", "new category")
	price := fs.Float64("price", -1, "new price")
	quantity := fs.Int("quantity", -1, "new quantity")
	tags := fs.String("tags", "", "comma-separated tags")
	status := fs.String("status", "", "new status")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: invctl update [flags] <id>")
	}

	// отправляются только явно переданные флаги, сервер делает merge-patch
	fields := map[string]interface{}{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			fields["title"] = *title
		case "description":
			fields["description"] = *description
		case "clear-description":
			if *clearDescription {
				fields["description"] = nil
			}
		case "category":
			fields["category"] = *category
		case "price":
			fields["price"] = *price
		case "quantity":
			fields["quantity"] = *quantity
		case "tags":
			if *tags == "" {
				fields["tags"] = []string{}
			} else {
				fields["tags"] = strings.Split(*tags, ",")
			}
		case "status":
			fields["status"] = *status
		}
	})
	if len(fields) == 0 {
		return fmt.Errorf("no fields to update, pass at least one flag")
	}

	it, err := c.Update(ctx, fs.Arg(0), fields)
	if err != nil {
		return err
	}
	printItem(it)
	return nil
}

func runDelete(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	yes := fs.Bool("yes", false, "skip confirmation prompt")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: invctl delete [-yes] <id>")
	}
	id := fs.Arg(0)

	if !*yes {
		fmt.Printf("delete item %s? [y/N]: ", id)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			fmt.Println("aborted")
			return nil
		}
	}

	msg, err := c.Delete(ctx, id)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func runSearch(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	limit := fs.Int("limit", 10, "maximum results")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: invctl search [-limit N] <term>")
	}
	items, err := c.Search(ctx, fs.Arg(0), *limit)
	if err != nil {
		return err
	}
	printItems(items)
	return nil
}

func runCategories(ctx context.Context, c *client.Client) error {
	categories, err := c.Categories(ctx)
	if err != nil {
		return err
	}
	for _, cat := range categories {
		fmt.Println(cat)
	}
	return nil
}

func printItems(items []model.Item) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPRICE\tQTY\tSTATUS")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\t%s\n",
			it.ID, it.Title, it.Category, it.Price, it.Quantity, it.Status)
	}
	_ = w.Flush()
}

func printItem(it *model.Item) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", it.ID)
	fmt.Fprintf(w, "Title:\t%s\n", it.Title)
	if it.Description != nil {
		fmt.Fprintf(w, "Description:\t%s\n", *it.Description)
	}
	fmt.Fprintf(w, "Category:\t%s\n", it.Category)
	fmt.Fprintf(w, "Price:\t%.2f\n", it.Price)
	fmt.Fprintf(w, "Quantity:\t%d\n", it.Quantity)
	fmt.Fprintf(w, "Tags:\t%s\n", strings.Join(it.Tags, ", "))
	fmt.Fprintf(w, "Status:\t%s\n", it.Status)
	fmt.Fprintf(w, "Created:\t%s\n", it.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Updated:\t%s\n", it.UpdatedAt.Format(time.RFC3339))
	_ = w.Flush()
}
