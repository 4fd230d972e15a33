// bankctl is the terminal client for the banking API. It keeps a credential
// on disk between runs, so a login survives process restarts until a logout
// or a server-side rejection ends the session.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/okapibank/okapi/internal/client/credstore"
	"github.com/okapibank/okapi/internal/client/gateway"
	"github.com/okapibank/okapi/internal/client/guard"
	"github.com/okapibank/okapi/internal/client/session"
	"github.com/okapibank/okapi/internal/logging"
)

const defaultAPIURL = "http://localhost:8080"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, gateway.ErrSessionEnded) {
			fmt.Fprintln(os.Stderr, "your session has ended, please log in again")
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("bankctl", flag.ContinueOnError)
	apiURL := flags.String("api", envOr("BANKCTL_API_URL", defaultAPIURL), "base URL of the banking API")
	credPath := flags.String("credentials", "", "path of the credential file (defaults to the user config dir)")
	page := flags.Int("page", 0, "page number for listings")
	size := flags.Int("size", 10, "page size for listings")
	verbose := flags.BoolP("verbose", "v", false, "log client activity")
	flags.Usage = func() { usage(flags) }

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if flags.NArg() == 0 {
		usage(flags)
		return errors.New("missing command")
	}

	logger := logging.Discard()
	if *verbose {
		logger = logging.New("debug")
	}

	path := *credPath
	if path == "" {
		path = credstore.DefaultPath()
	}
	store := credstore.NewFile(path)

	sessions := session.NewManager(store, func(route string) {
		fmt.Fprintf(os.Stderr, "redirected to %s\n", route)
	}, logger)
	sessions.Hydrate()

	client := gateway.New(*apiURL, sessions, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app := &cli{client: client, sessions: sessions, page: *page, size: *size}
	return app.dispatch(ctx, flags.Arg(0), flags.Args()[1:])
}

type cli struct {
	client   *gateway.Client
	sessions *session.Manager
	page     int
	size     int
}

func (a *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args, false)
	case "admin-login":
		return a.login(ctx, args, true)
	case "logout":
		a.sessions.Logout()
		fmt.Println("logged out")
		return nil
	case "forgot-password":
		return a.forgotPassword(ctx, args)
	case "reset-password":
		return a.resetPassword(ctx, args)
	case "whoami":
		return a.whoami(ctx)
	case "balance":
		return a.guarded(guard.User, func() error { return a.balance(ctx) })
	case "beneficiaries":
		return a.guarded(guard.User, func() error { return a.beneficiaries(ctx) })
	case "add-beneficiary":
		return a.guarded(guard.User, func() error { return a.addBeneficiary(ctx, args) })
	case "transfer":
		return a.guarded(guard.User, func() error { return a.transfer(ctx, args) })
	case "history":
		return a.guarded(guard.User, func() error { return a.history(ctx) })
	case "details":
		return a.guarded(guard.User, func() error { return a.details(ctx) })
	case "set-details":
		return a.guarded(guard.User, func() error { return a.setDetails(ctx, args) })
	case "admin-users":
		return a.guarded(guard.Admin, func() error { return a.adminUsers(ctx) })
	case "admin-user":
		return a.guarded(guard.Admin, func() error { return a.adminUser(ctx, args) })
	case "admin-transactions":
		return a.guarded(guard.Admin, func() error { return a.adminTransactions(ctx) })
	case "admin-transaction":
		return a.guarded(guard.Admin, func() error { return a.adminTransaction(ctx, args) })
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// guarded evaluates a route guard against the current session before running
// the command, the same decision a navigation layer would make.
func (a *cli) guarded(g func(session.Session) guard.Decision, fn func() error) error {
	if d := g(a.sessions.Current()); !d.Allow {
		return fmt.Errorf("not allowed, log in at %s", d.Redirect)
	}
	return fn()
}

func (a *cli) register(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errors.New("usage: bankctl register <username> <email> <password> [first] [last]")
	}
	reg := gateway.Registration{
		Username:    args[0],
		Email:       args[1],
		Password:    args[2],
		AccountType: "SAVINGS",
	}
	if len(args) > 3 {
		reg.FirstName = args[3]
	}
	if len(args) > 4 {
		reg.LastName = args[4]
	}
	grant, err := a.client.RegisterCustomer(ctx, reg)
	if err != nil {
		return err
	}
	fmt.Printf("registered and logged in as %s (%s)\n", reg.Username, grant.Role)
	return nil
}

func (a *cli) login(ctx context.Context, args []string, asAdmin bool) error {
	if len(args) != 2 {
		return errors.New("usage: bankctl login <username> <password>")
	}
	var (
		grant gateway.Grant
		err   error
	)
	if asAdmin {
		grant, err = a.client.LoginAdmin(ctx, args[0], args[1])
	} else {
		grant, err = a.client.LoginCustomer(ctx, args[0], args[1])
	}
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", args[0], grant.Role)
	return nil
}

func (a *cli) forgotPassword(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: bankctl forgot-password <email>")
	}
	if err := a.client.ForgotPassword(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("verification code sent")
	return nil
}

func (a *cli) resetPassword(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: bankctl reset-password <email> <code> <new-password>")
	}
	if err := a.client.ResetPassword(ctx, args[0], args[1], args[2]); err != nil {
		return err
	}
	fmt.Println("password reset successful")
	return nil
}

func (a *cli) details(ctx context.Context) error {
	details, err := a.client.CustomerDetails(ctx)
	if err != nil {
		return err
	}
	return printJSON(details)
}

func (a *cli) setDetails(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return errors.New("usage: bankctl set-details <dob> <aadhar> <pan> <occupation> [annual-income]")
	}
	input := gateway.CustomerDetailsInput{
		DateOfBirth:  args[0],
		AadharNumber: args[1],
		PANNumber:    args[2],
		Occupation:   args[3],
	}
	if len(args) > 4 {
		input.AnnualIncome = args[4]
	}
	if err := a.client.SaveCustomerDetails(ctx, input); err != nil {
		return err
	}
	fmt.Println("customer details saved")
	return nil
}

func (a *cli) adminUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: bankctl admin-user <user-id>")
	}
	record, err := a.client.AdminUser(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(record)
}

func (a *cli) adminTransaction(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: bankctl admin-transaction <transaction-id>")
	}
	record, err := a.client.AdminTransaction(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(record)
}

func (a *cli) whoami(ctx context.Context) error {
	sess := a.sessions.Current()
	if !sess.Authenticated {
		fmt.Println("not logged in")
		return nil
	}
	profile, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	return printJSON(profile)
}

func (a *cli) balance(ctx context.Context) error {
	balances, err := a.client.Balance(ctx)
	if err != nil {
		return err
	}
	for number, amount := range balances {
		fmt.Printf("%s\t%s\n", number, amount)
	}
	return nil
}

func (a *cli) beneficiaries(ctx context.Context) error {
	list, err := a.client.Beneficiaries(ctx)
	if err != nil {
		return err
	}
	return printJSON(list)
}

func (a *cli) addBeneficiary(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errors.New("usage: bankctl add-beneficiary <name> <bank> <account-number> [ifsc] [limit]")
	}
	input := gateway.AddBeneficiary{
		Name:          args[0],
		BankName:      args[1],
		AccountNumber: args[2],
	}
	if len(args) > 3 {
		input.IFSCCode = args[3]
	}
	if len(args) > 4 {
		input.MaxTransferLimit = args[4]
	}
	ben, err := a.client.SaveBeneficiary(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("beneficiary %s saved (%s)\n", ben.Name, ben.BeneficiaryID)
	return nil
}

func (a *cli) transfer(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: bankctl transfer <beneficiary-id> <amount> [description]")
	}
	description := ""
	if len(args) > 2 {
		description = args[2]
	}

	// The validator runs against the resolved beneficiary, so look it up
	// from the caller's saved list first.
	list, err := a.client.Beneficiaries(ctx)
	if err != nil {
		return err
	}
	for _, b := range list {
		if b.BeneficiaryID == args[0] {
			result, err := a.client.Transfer(ctx, b, args[1], description)
			if err != nil {
				return err
			}
			fmt.Printf("transfer %s completed, new balance %s\n", result.Transaction.Reference, result.NewBalance)
			return nil
		}
	}
	return fmt.Errorf("no beneficiary with id %q", args[0])
}

func (a *cli) history(ctx context.Context) error {
	result, err := a.client.History(ctx, a.page, a.size)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (a *cli) adminUsers(ctx context.Context) error {
	result, err := a.client.AdminUsers(ctx, a.page, a.size)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (a *cli) adminTransactions(ctx context.Context) error {
	result, err := a.client.AdminTransactions(ctx, a.page, a.size)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func usage(flags *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, `bankctl - terminal client for the banking API

Commands:
  register <username> <email> <password> [first] [last]
  login <username> <password>
  admin-login <username> <password>
  logout
  forgot-password <email>
  reset-password <email> <code> <new-password>
  whoami
  balance
  beneficiaries
  add-beneficiary <name> <bank> <account-number> [ifsc] [limit]
  transfer <beneficiary-id> <amount> [description]
  history
  details
  set-details <dob> <aadhar> <pan> <occupation> [annual-income]
  admin-users
  admin-user <user-id>
  admin-transactions
  admin-transaction <transaction-id>

Flags:`)
	flags.PrintDefaults()
}
