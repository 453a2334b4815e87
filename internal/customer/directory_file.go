package customer

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Flat-file customer format, one record per line:
//
//	first_name|last_name|email|password

const customerFields = 4

// FileDirectory re-reads the customer file on every lookup, so each call
// observes the latest data. Every read takes a single full byte snapshot of
// the file before parsing; a writer that replaces the file atomically
// (write-then-rename) can therefore never be observed half-written.
type FileDirectory struct {
	path string
}

// NewFileDirectory validates the file once so malformed data fails at
// startup instead of on the first login attempt.
func NewFileDirectory(path string) (*FileDirectory, error) {
	d := &FileDirectory{path: path}
	if _, err := d.read(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *FileDirectory) Ping(ctx context.Context) error {
	_, err := os.Stat(d.path)
	return err
}

func (d *FileDirectory) GetByEmail(ctx context.Context, email string) (Customer, bool, error) {
	byEmail, err := d.read()
	if err != nil {
		return Customer{}, false, err
	}
	c, ok := byEmail[email]
	return c, ok, nil
}

func (d *FileDirectory) read() (map[string]Customer, error) {
	raw, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("read customer file: %w", err)
	}

	customers, err := ParseCustomers(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", d.path, err)
	}

	byEmail := make(map[string]Customer, len(customers))
	for _, c := range customers {
		byEmail[c.Email] = c
	}
	return byEmail, nil
}

// ParseCustomers parses pipe-delimited customer records in file order.
func ParseCustomers(r io.Reader) ([]Customer, error) {
	var (
		customers []Customer
		lineNo    int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) != customerFields {
			return nil, fmt.Errorf("line %d: want %d fields, got %d", lineNo, customerFields, len(parts))
		}
		if strings.TrimSpace(parts[2]) == "" {
			return nil, fmt.Errorf("line %d: empty email", lineNo)
		}

		customers = append(customers, Customer{
			FirstName: parts[0],
			LastName:  parts[1],
			Email:     parts[2],
			Password:  parts[3],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return customers, nil
}
