package main

import (
	"fmt"

	"github.com/spf13/cobra"

	authform "github.com/goliatone/go-authform"
	"github.com/goliatone/go-authform/pkg/flows"
	"github.com/goliatone/go-authform/pkg/renderers/tui"
	"github.com/goliatone/go-authform/pkg/storage"
	"github.com/goliatone/go-authform/pkg/strength"
)

var socialSignup bool

func init() {
	socialCmd.Flags().BoolVar(&socialSignup, "signup", false, "use the signup wording")

	RootCmd.AddCommand(loginCmd, signupCmd, socialCmd, strengthCmd, forgetCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE:  runSignup,
}

var socialCmd = &cobra.Command{
	Use:   "social",
	Short: "Try a social provider button",
	Args:  cobra.NoArgs,
	RunE:  runSocial,
}

var strengthCmd = &cobra.Command{
	Use:   "strength <password>",
	Short: "Score a password and show its meter",
	Args:  cobra.ExactArgs(1),
	RunE:  runStrength,
}

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Clear the remembered email",
	Args:  cobra.NoArgs,
	RunE:  runForget,
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	term, err := openTerminal(ctx)
	if err != nil {
		return err
	}
	defer term.app.Close()

	login, err := term.app.NewLogin(ctx)
	if err != nil {
		return err
	}
	defer login.Close()

	if _, err := term.session.Run(ctx, login, tui.Checkbox{
		Name:    flows.CheckRemember,
		Message: "Remember me",
	}); err != nil {
		return err
	}
	return finish(cmd, term)
}

func runSignup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	term, err := openTerminal(ctx)
	if err != nil {
		return err
	}
	defer term.app.Close()

	signup, err := term.app.NewSignup()
	if err != nil {
		return err
	}
	defer signup.Close()

	if _, err := term.session.Run(ctx, signup, tui.Checkbox{
		Name:    flows.CheckTerms,
		Message: "I agree to the Terms of Service and Privacy Policy",
		Help:    flows.MsgTermsNotice,
	}); err != nil {
		return err
	}
	return finish(cmd, term)
}

func runSocial(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	term, err := openTerminal(ctx)
	if err != nil {
		return err
	}
	defer term.app.Close()

	if socialSignup {
		signup, err := term.app.NewSignup()
		if err != nil {
			return err
		}
		defer signup.Close()
		return term.session.Social(ctx, signup.Social())
	}

	login, err := term.app.NewLogin(ctx)
	if err != nil {
		return err
	}
	defer login.Close()
	return term.session.Social(ctx, login.Social())
}

func runStrength(cmd *cobra.Command, args []string) error {
	report := strength.Evaluate(args[0])
	meter := strength.Indicator(report.Bucket)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s (%d/5, %d%%)\n", meter.Label, report.Count, meter.Fill)
	checks := []struct {
		name string
		ok   bool
	}{
		{fmt.Sprintf("at least %d characters", strength.MinLength), report.Criteria.Length},
		{"lowercase letter", report.Criteria.Lowercase},
		{"uppercase letter", report.Criteria.Uppercase},
		{"digit", report.Criteria.Digit},
		{"symbol", report.Criteria.Symbol},
	}
	for _, c := range checks {
		mark := "✗"
		if c.ok {
			mark = "✓"
		}
		fmt.Fprintf(out, "  %s %s\n", mark, c.name)
	}
	if !strength.Acceptable(args[0]) {
		fmt.Fprintln(out, "Not accepted for signup.")
	}
	return nil
}

func runForget(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := authform.Open(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := storage.ClearRemembered(cmd.Context(), app.Store()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Remembered email cleared.")
	return nil
}

// finish waits for the post-success redirect so the notice and the target
// are both printed before the process exits.
func finish(cmd *cobra.Command, term *terminal) error {
	target, err := term.nav.wait(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "→ %s\n", target)
	return nil
}
