package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/spent-dev/spent/internal/cli"
	"github.com/spent-dev/spent/internal/model"
)

var (
	flagPage     int
	flagSearch   string
	flagCategory string
	flagMin      string
	flagMax      string
	flagFrom     string
	flagTo       string

	flagTitle   string
	flagAmount  string
	flagDate    string
	flagNotes   string
	flagReceipt string
	flagYes     bool
)

var expensesCmd = &cobra.Command{
	Use:     "expenses",
	Aliases: []string{"ls"},
	Short:   "List expenses",
	RunE:    runExpensesList,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an expense",
	RunE:  runExpenseAdd,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one expense in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpenseShow,
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpenseEdit,
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpenseRemove,
}

func init() {
	expensesCmd.Flags().StringVarP(&flagTimeFilter, "period", "p", "", "Period: current-month, last-month or this-year")
	expensesCmd.Flags().IntVar(&flagPage, "page", 1, "Page number")
	expensesCmd.Flags().StringVarP(&flagSearch, "search", "s", "", "Match against title and notes")
	expensesCmd.Flags().StringVarP(&flagCategory, "category", "c", "", "Category name filter")
	expensesCmd.Flags().StringVar(&flagMin, "min", "", "Minimum amount")
	expensesCmd.Flags().StringVar(&flagMax, "max", "", "Maximum amount")
	expensesCmd.Flags().StringVar(&flagFrom, "from", "", "Custom range start (YYYY-MM-DD)")
	expensesCmd.Flags().StringVar(&flagTo, "to", "", "Custom range end (YYYY-MM-DD)")

	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVarP(&flagTitle, "title", "t", "", "Expense title")
		c.Flags().StringVarP(&flagAmount, "amount", "a", "", "Amount, e.g. 12.50")
		c.Flags().StringVarP(&flagDate, "date", "d", "", "Date (YYYY-MM-DD, default today)")
		c.Flags().StringVarP(&flagCategory, "category", "c", "", "Category name")
		c.Flags().StringVarP(&flagNotes, "notes", "n", "", "Notes")
		c.Flags().StringVar(&flagReceipt, "receipt", "", "Receipt URL")
	}
	rmCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")

	expensesCmd.AddCommand(showCmd, addCmd, editCmd, rmCmd)
	rootCmd.AddCommand(expensesCmd)
}

// listFilter builds FilterOptions from the list flags. --from/--to switch
// the period to a custom range.
func listFilter(e *env, cats []model.Category) (model.FilterOptions, error) {
	f := model.FilterOptions{SearchQuery: flagSearch}

	tf, err := periodFilter(e)
	if err != nil {
		return f, err
	}
	f.TimeFilter = tf

	if flagFrom != "" || flagTo != "" {
		if flagFrom == "" || flagTo == "" {
			return f, errors.New("--from and --to must be given together")
		}
		start, err := model.ParseDate(flagFrom)
		if err != nil {
			return f, err
		}
		end, err := model.ParseDate(flagTo)
		if err != nil {
			return f, err
		}
		f.TimeFilter = model.Custom
		f.StartDate = start
		f.EndDate = end
	}

	// The server matches category filters by name.
	if flagCategory != "" {
		cat, err := categoryByName(cats, flagCategory)
		if err != nil {
			return f, err
		}
		f.Categories = []string{cat.Name}
	}
	if flagMin != "" {
		d, err := model.ParseAmount(flagMin)
		if err != nil {
			return f, fmt.Errorf("--min: %w", err)
		}
		f.MinAmount = &d
	}
	if flagMax != "" {
		d, err := model.ParseAmount(flagMax)
		if err != nil {
			return f, fmt.Errorf("--max: %w", err)
		}
		f.MaxAmount = &d
	}
	return f, nil
}

func categoryByName(cats []model.Category, name string) (model.Category, error) {
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	return model.Category{}, fmt.Errorf("unknown category %q (have: %s)", name, strings.Join(names, ", "))
}

func runExpensesList(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if err := requireSession(cmd.Context(), e); err != nil {
		return err
	}

	cats, err := e.client.Categories(cmd.Context())
	if err != nil {
		return err
	}
	filter, err := listFilter(e, cats)
	if err != nil {
		return err
	}

	progress("Fetching expenses...\n")
	page, err := e.client.Expenses(cmd.Context(), filter, flagPage, e.cfg.General.PageSize)
	if err != nil {
		return err
	}
	if len(page.Expenses) == 0 {
		fmt.Println("No expenses found.")
		return nil
	}

	cols := []cli.Column{
		{Header: "ID", Width: 10},
		{Header: "Date", Width: 10},
		{Header: "Title", Width: 28},
		{Header: "Category", Width: 14},
		{Header: "Amount", Width: 12, Right: true},
	}
	rows := make([][]string, 0, len(page.Expenses))
	total := decimal.Zero
	for _, x := range page.Expenses {
		total = total.Add(x.Amount)
		rows = append(rows, []string{
			cli.Truncate(x.ID, 10),
			cli.FormatDateISO(x.Date),
			cli.Truncate(x.Title, 28),
			cli.Truncate(x.CategoryName, 14),
			cli.FormatAmount(x.Amount),
		})
	}
	fmt.Print(cli.Table(cols, rows))
	fmt.Printf("\nPage %d/%d, %d expenses, page total %s\n",
		page.Pagination.Page, page.Pagination.Pages, page.Pagination.Total, cli.FormatAmount(total))
	return nil
}

// inputFromFlags assembles an ExpenseInput from the add/edit flags, on top
// of base (zero for add, the current record for edit).
func inputFromFlags(cmd *cobra.Command, cats []model.Category, base model.ExpenseInput) (model.ExpenseInput, error) {
	in := base
	if cmd.Flags().Changed("title") {
		in.Title = flagTitle
	}
	if cmd.Flags().Changed("amount") {
		d, err := model.ParseAmount(flagAmount)
		if err != nil {
			return in, err
		}
		in.Amount = d
	}
	if cmd.Flags().Changed("date") {
		t, err := model.ParseDate(flagDate)
		if err != nil {
			return in, model.ErrDateInvalid
		}
		in.Date = t
	}
	if cmd.Flags().Changed("category") {
		cat, err := categoryByName(cats, flagCategory)
		if err != nil {
			return in, err
		}
		in.CategoryID = cat.ID
	}
	if cmd.Flags().Changed("notes") {
		in.Notes = flagNotes
	}
	if cmd.Flags().Changed("receipt") {
		in.ReceiptURL = flagReceipt
	}

	if errs := model.ValidateExpense(in); errs != nil {
		for _, err := range errs {
			return in, err
		}
	}
	return in, nil
}

func runExpenseAdd(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if err := requireSession(cmd.Context(), e); err != nil {
		return err
	}

	cats, err := e.client.Categories(cmd.Context())
	if err != nil {
		return err
	}

	base := model.ExpenseInput{Date: todayDate()}
	in, err := inputFromFlags(cmd, cats, base)
	if err != nil {
		return err
	}

	created, err := e.client.CreateExpense(cmd.Context(), in)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s: %s %s\n", created.ID, created.Title, cli.FormatAmount(created.Amount))
	return nil
}

func runExpenseShow(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if err := requireSession(cmd.Context(), e); err != nil {
		return err
	}

	x, err := e.client.Expense(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	category := x.CategoryName
	if cats, err := e.client.Categories(cmd.Context()); err == nil {
		if c, ok := model.CategoryByID(cats, x.CategoryID); ok {
			category = c.Name
		}
	}

	pairs := [][2]string{
		{"Title", x.Title},
		{"Amount", cli.FormatAmount(x.Amount)},
		{"Date", cli.FormatDateISO(x.Date)},
		{"Category", category},
	}
	if x.Notes != "" {
		pairs = append(pairs, [2]string{"Notes", x.Notes})
	}
	if x.ReceiptURL != "" {
		pairs = append(pairs, [2]string{"Receipt", x.ReceiptURL})
	}
	pairs = append(pairs, [2]string{"Created", cli.FormatDate(x.CreatedAt)})

	fmt.Print(cli.KV(pairs))
	return nil
}

func runExpenseEdit(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if err := requireSession(cmd.Context(), e); err != nil {
		return err
	}

	current, err := e.client.Expense(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cats, err := e.client.Categories(cmd.Context())
	if err != nil {
		return err
	}

	in, err := inputFromFlags(cmd, cats, model.InputFromExpense(current))
	if err != nil {
		return err
	}

	updated, err := e.client.UpdateExpense(cmd.Context(), current.ID, in)
	if err != nil {
		return err
	}
	fmt.Printf("Updated %s: %s %s\n", updated.ID, updated.Title, cli.FormatAmount(updated.Amount))
	return nil
}

func runExpenseRemove(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if err := requireSession(cmd.Context(), e); err != nil {
		return err
	}

	x, err := e.client.Expense(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !flagYes {
		if !confirmPrompt(fmt.Sprintf("Delete %q (%s)?", x.Title, cli.FormatAmount(x.Amount))) {
			fmt.Println("Kept.")
			return nil
		}
	}

	if err := e.client.DeleteExpense(cmd.Context(), x.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", x.ID)
	return nil
}

// todayDate truncates now to date-only granularity.
func todayDate() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func confirmPrompt(title string) bool {
	confirmed := false
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Delete").
		Negative("Keep").
		Value(&confirmed).
		Run()
	return err == nil && confirmed
}
