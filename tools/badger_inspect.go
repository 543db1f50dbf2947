package main

import (
	"collab-lab/repositories"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	// Scan "edit:" for document history or "msg:" for archived chat
	prefix := flag.String("prefix", "edit:", "Prefix to scan (edit: or msg:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Session", "Author", "At", "Version", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			err := item.Value(func(v []byte) error {
				var row []string
				switch {
				case strings.HasPrefix(rawKey, "edit:"):
					var edit repositories.ArchivedEdit
					if err := json.Unmarshal(v, &edit); err != nil {
						// Log the broken row and keep scanning instead of aborting
						fmt.Printf("Error unmarshaling key %s: %v\n", rawKey, err)
						return nil
					}
					detail := fmt.Sprintf("%s pos=%d", edit.Kind, edit.Position)
					if edit.Content != "" {
						detail += " " + truncate(edit.Content, 40)
					}
					if edit.Length > 0 {
						detail += fmt.Sprintf(" len=%d", edit.Length)
					}
					row = []string{rawKey, shortID(edit.Session), shortID(edit.Author),
						edit.At.Format("15:04:05"), fmt.Sprintf("%d", edit.Version), detail}
				case strings.HasPrefix(rawKey, "msg:"):
					var message repositories.ArchivedMessage
					if err := json.Unmarshal(v, &message); err != nil {
						fmt.Printf("Error unmarshaling key %s: %v\n", rawKey, err)
						return nil
					}
					row = []string{rawKey, shortID(message.Session), shortID(message.Author),
						message.At.Format("15:04:05"), "", truncate(message.Content, 60)}
				default:
					return nil
				}
				table.Append(row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

// shortID keeps the first 8 characters of an identifier for readability.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil {
		// A dirty shutdown can require a truncate: open in write mode once,
		// then reopen read-only.
		if strings.Contains(err.Error(), "Log truncate required") {
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}

			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
