package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/userdeck/userdeck/internal/config"
	"github.com/userdeck/userdeck/internal/directory"
	"github.com/userdeck/userdeck/internal/forms"
	"github.com/userdeck/userdeck/internal/paging"
	"golang.org/x/term"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect the remote user directory.",
}

var (
	listUsername      string
	listPasswordStdin bool
	listPage          int
	listExclude       []int64
)

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Sign in and print one reconciled page of users.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listPage < 1 {
			return usageError("--page must be >= 1")
		}

		password, err := resolveListPassword(cmd)
		if err != nil {
			return err
		}
		creds := forms.SignIn{Username: listUsername, Password: password}
		if err := creds.Validate(); err != nil {
			return usageError("%v", err)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		client, err := directory.New(cfg.DirectoryBaseURL, cfg.DirectoryTimeout)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.DirectoryTimeout+5*time.Second)
		defer cancel()

		auth, err := client.Login(ctx, creds.Username, creds.Password)
		if err != nil {
			if errors.Is(err, directory.ErrRemote) {
				return &exitError{code: 1, err: fmt.Errorf("sign in failed: %w", err)}
			}
			return err
		}

		engine, err := paging.NewEngine(client.WithToken(auth.AccessToken), cfg.PageSize)
		if err != nil {
			return err
		}
		res, err := engine.PlanAndFetch(ctx, listPage, paging.NewExclusionSet(listExclude...))
		if err != nil {
			return err
		}
		return printPage(cmd.OutOrStdout(), res)
	},
}

func printPage(out io.Writer, res paging.Result) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tAGE\tCOMPANY\tTITLE")
	for _, r := range res.Records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", r.ID, r.FullName(), r.Email, r.Age, r.Company.Name, r.Company.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "page %d of %d, %d users\n", res.Page, res.TotalPages(), res.Total)
	if res.Short() {
		fmt.Fprintln(out, "page is short: more users remain than are shown")
	}
	return nil
}

func resolveListPassword(cmd *cobra.Command) (string, error) {
	if listPasswordStdin {
		password, err := readPasswordLine(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		if password == "" {
			return "", errors.New("password is empty")
		}
		return password, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", usageError("no password provided (use --password-stdin)")
	}
	cmd.Print("Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func readPasswordLine(in io.Reader) (string, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4*1024), 64*1024)
	if !scanner.Scan() {
		return "", scanner.Err()
	}
	return strings.TrimRight(scanner.Text(), "\r\n"), nil
}

func init() {
	usersCmd.AddCommand(usersListCmd)
	usersListCmd.Flags().StringVar(&listUsername, "username", "", "Directory username to sign in with")
	usersListCmd.Flags().BoolVar(&listPasswordStdin, "password-stdin", false, "Read the password from stdin")
	usersListCmd.Flags().IntVar(&listPage, "page", 1, "Page number to print")
	usersListCmd.Flags().Int64SliceVar(&listExclude, "exclude", nil, "Ids to hide as if deleted earlier")
	_ = usersListCmd.MarkFlagRequired("username")
}
