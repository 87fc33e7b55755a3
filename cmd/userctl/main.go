// Command userctl maintains the server's credential file.
//
//	userctl -file users.txt list
//	userctl -file users.txt add <username> <password>
//
// Passwords added here are stored as Argon2id hashes; the server also
// accepts legacy plain text values for entries written by hand.
package main

import (
	"chat-server/auth"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
)

func main() {
	usersFile := flag.String("file", "users.txt", "Path to the credential file")
	flag.Parse()

	switch flag.Arg(0) {
	case "list":
		if err := listUsers(*usersFile); err != nil {
			log.Fatal("Error while listing users: ", err)
		}
	case "add":
		if err := addUser(*usersFile, flag.Arg(1), flag.Arg(2)); err != nil {
			log.Fatal("Error while adding user: ", err)
		}
	default:
		fmt.Fprintln(os.Stderr, "usage: userctl [-file users.txt] list | add <username> <password>")
		os.Exit(2)
	}
}

func listUsers(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Username", "Credential"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, line := range strings.Split(string(data), "\n") {
		username, password, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		kind := "plain text"
		if strings.HasPrefix(strings.TrimSpace(password), "$argon2id$") {
			kind = "argon2id"
		}
		table.Append([]string{strings.TrimSpace(username), kind})
	}

	table.Render()
	return nil
}

func addUser(path, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("usage: userctl add <username> <password>")
	}
	if strings.ContainsAny(username, ": ") {
		return fmt.Errorf("username must not contain ':' or spaces")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing failed: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := fmt.Fprintf(f, "%s:%s\n", username, hash); err != nil {
		return err
	}

	fmt.Printf("Added user %q to %s\n", username, path)
	return nil
}
