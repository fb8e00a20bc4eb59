package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var flagEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session token",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session token",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&flagEmail, "email", "e", "", "Email address")
	registerCmd.Flags().StringVarP(&flagEmail, "email", "e", "", "Email address")
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

// promptCredentials collects whatever login/register still needs from the
// terminal. Password never comes from a flag.
func promptCredentials(email *string, password *string, displayName *string) error {
	var fields []huh.Field
	if strings.TrimSpace(*email) == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(email))
	}
	fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password))
	if displayName != nil {
		fields = append(fields, huh.NewInput().Title("Display name (optional)").Value(displayName))
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func runLogin(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	email := flagEmail
	var password string
	if err := promptCredentials(&email, &password, nil); err != nil {
		return err
	}

	if err := e.session.Login(cmd.Context(), strings.TrimSpace(email), password); err != nil {
		return err
	}
	user, _ := e.session.User()
	fmt.Printf("Signed in as %s\n", user.Name())
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	email := flagEmail
	var password, displayName string
	if err := promptCredentials(&email, &password, &displayName); err != nil {
		return err
	}

	if err := e.session.Register(cmd.Context(), strings.TrimSpace(email), password, strings.TrimSpace(displayName)); err != nil {
		return err
	}
	user, _ := e.session.User()
	fmt.Printf("Account created, signed in as %s\n", user.Name())
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	e.session.Logout()
	fmt.Println("Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if err := requireSession(cmd.Context(), e); err != nil {
		return err
	}
	user, _ := e.session.User()
	fmt.Printf("%s <%s>\n", user.Name(), user.Email)
	return nil
}
