package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spent-dev/spent/internal/cli"
)

var (
	flagColor   string
	flagNewName string
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List expense categories",
	RunE:  runCategoriesList,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryAdd,
}

var categoryEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Rename or recolor a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryEdit,
}

var categoryRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryRemove,
}

func init() {
	categoryAddCmd.Flags().StringVar(&flagColor, "color", "#64748b", "Hex color for charts")
	categoryEditCmd.Flags().StringVar(&flagNewName, "name", "", "New category name")
	categoryEditCmd.Flags().StringVar(&flagColor, "color", "", "New hex color")
	categoriesCmd.AddCommand(categoryAddCmd, categoryEditCmd, categoryRmCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func runCategoriesList(cmd *cobra.Command, args []string) error {
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
	if len(cats) == 0 {
		fmt.Println("No categories.")
		return nil
	}

	cols := []cli.Column{
		{Header: "ID", Width: 10},
		{Header: "Name", Width: 20},
		{Header: "Color", Width: 8},
	}
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{cli.Truncate(c.ID, 10), cli.Truncate(c.Name, 20), c.Color})
	}
	fmt.Print(cli.Table(cols, rows))
	return nil
}

func runCategoryAdd(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if err := requireSession(cmd.Context(), e); err != nil {
		return err
	}

	cat, err := e.client.CreateCategory(cmd.Context(), args[0], flagColor)
	if err != nil {
		return err
	}
	fmt.Printf("Created category %s (%s)\n", cat.Name, cat.ID)
	return nil
}

func runCategoryEdit(cmd *cobra.Command, args []string) error {
	if flagNewName == "" && flagColor == "" {
		return errors.New("nothing to change; pass --name or --color")
	}

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
	cat, err := categoryByName(cats, args[0])
	if err != nil {
		return err
	}

	updated, err := e.client.UpdateCategory(cmd.Context(), cat.ID, flagNewName, flagColor)
	if err != nil {
		return err
	}
	fmt.Printf("Updated category %s (%s)\n", updated.Name, updated.Color)
	return nil
}

func runCategoryRemove(cmd *cobra.Command, args []string) error {
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
	cat, err := categoryByName(cats, args[0])
	if err != nil {
		return err
	}

	if err := e.client.DeleteCategory(cmd.Context(), cat.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted category %s\n", cat.Name)
	return nil
}
