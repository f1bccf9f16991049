package tools

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/bookwright-dev/bookwright/internal/book"
	"github.com/bookwright-dev/bookwright/internal/ledger"
)

// Registry returns the operations advertised to the client. Mutating
// tools exist only in write mode: in read-only mode they are absent from
// the set, not merely rejected.
func Registry(svc *ledger.Service, writeMode bool) []Function {
	fns := []Function{
		newOpenFile(svc),
		newCloseFile(svc),
		newListAccounts(svc),
		newGetAccountBalance(svc),
		newGetTransactions(svc),
		newSearchAccounts(svc),
		newGetAccountInfo(svc),
	}
	if writeMode {
		fns = append(fns, newAddTransaction(svc), newCommit(svc))
	}
	return fns
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func boolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func intArg(args map[string]any, key string, def int) int {
	// JSON numbers arrive as float64.
	if f, ok := args[key].(float64); ok {
		return int(f)
	}
	return def
}

func decimalArg(args map[string]any, key string) decimal.Decimal {
	switch v := args[key].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func fail(svc *ledger.Service, err error) string {
	return renderError(err, svc.Sessions().ConfiguredPath())
}

func newOpenFile(svc *ledger.Service) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "open_file",
			Description: "Open a ledger file. Closes any previously open file first. " +
				"Set break_lock to reclaim a stale exclusive lock left by a crashed application.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"file_path": {
						Type:        genai.TypeString,
						Description: "Absolute path to the ledger file.",
					},
					"break_lock": {
						Type:        genai.TypeBoolean,
						Description: "Remove a stale lock file before opening (only if the owning application is not running).",
					},
				},
				Required: []string{"file_path"},
			},
		},
		Run: func(ctx context.Context, args map[string]any) string {
			path := stringArg(args, "file_path")
			if err := svc.Sessions().Open(path, boolArg(args, "break_lock")); err != nil {
				return fail(svc, err)
			}
			mode := "read-only"
			if svc.Sessions().Mode() == book.ModeReadWrite {
				mode = "read-write"
			}
			return fmt.Sprintf("Successfully opened ledger file (%s): %s", mode, path)
		},
	}
}

func newCloseFile(svc *ledger.Service) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "close_file",
			Description: "Close the currently open ledger file and release its exclusive lock.",
		},
		Run: func(ctx context.Context, args map[string]any) string {
			closed, err := svc.Sessions().Close()
			if err != nil {
				return fail(svc, err)
			}
			if !closed {
				return "No file is currently open."
			}
			return "File closed successfully."
		},
	}
}

func newListAccounts(svc *ledger.Service) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "list_accounts",
			Description: "List all accounts in the open ledger file with their types, sorted by full name.",
		},
		Run: func(ctx context.Context, args map[string]any) string {
			accounts, err := svc.ListAccounts()
			if err != nil {
				return fail(svc, err)
			}
			return renderAccountList(accounts)
		},
	}
}

func newGetAccountBalance(svc *ledger.Service) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "get_account_balance",
			Description: "Get the balance of a specific account.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"account_name": {
						Type:        genai.TypeString,
						Description: "Full account name (e.g. \"Assets.Bank.Checking\") or a partial name to search for.",
					},
				},
				Required: []string{"account_name"},
			},
		},
		Run: func(ctx context.Context, args map[string]any) string {
			rep, err := svc.Balance(stringArg(args, "account_name"))
			if err != nil {
				return fail(svc, err)
			}
			return renderBalance(rep)
		},
	}
}

func newGetTransactions(svc *ledger.Service) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "get_transactions",
			Description: "Get recent transactions for a specific account, most recent last.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"account_name": {
						Type:        genai.TypeString,
						Description: "Full or partial account name.",
					},
					"limit": {
						Type:        genai.TypeInteger,
						Description: "Maximum number of transactions to return (default 20).",
					},
				},
				Required: []string{"account_name"},
			},
		},
		Run: func(ctx context.Context, args map[string]any) string {
			rep, err := svc.RecentActivity(stringArg(args, "account_name"), intArg(args, "limit", 20))
			if err != nil {
				return fail(svc, err)
			}
			return renderActivity(rep)
		},
	}
}

func newSearchAccounts(svc *ledger.Service) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "search_accounts",
			Description: "Search for accounts by name (case-insensitive partial match).",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {
						Type:        genai.TypeString,
						Description: "Search string to match against account names.",
					},
				},
				Required: []string{"query"},
			},
		},
		Run: func(ctx context.Context, args map[string]any) string {
			query := stringArg(args, "query")
			matches, err := svc.SearchAccounts(query)
			if err != nil {
				return fail(svc, err)
			}
			return renderSearch(query, matches)
		},
	}
}

func newGetAccountInfo(svc *ledger.Service) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "get_account_info",
			Description: "Get detailed information about a specific account: type, description, balances, children.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"account_name": {
						Type:        genai.TypeString,
						Description: "Full or partial account name.",
					},
				},
				Required: []string{"account_name"},
			},
		},
		Run: func(ctx context.Context, args map[string]any) string {
			rep, err := svc.AccountInfo(stringArg(args, "account_name"))
			if err != nil {
				return fail(svc, err)
			}
			return renderInfo(rep)
		},
	}
}

func newAddTransaction(svc *ledger.Service) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "add_transaction",
			Description: "[WRITE MODE] Create a balanced double-entry transaction transferring money " +
				"between two accounts (two splits: money leaves from_account, enters to_account).",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"from_account": {
						Type:        genai.TypeString,
						Description: "Source account (money flows out).",
					},
					"to_account": {
						Type:        genai.TypeString,
						Description: "Destination account (money flows in).",
					},
					"amount": {
						Type:        genai.TypeNumber,
						Description: "Amount to transfer (positive number).",
					},
					"description": {
						Type:        genai.TypeString,
						Description: "Transaction description/payee.",
					},
					"date": {
						Type:        genai.TypeString,
						Description: "Optional date in YYYY-MM-DD format (defaults to today).",
					},
					"memo": {
						Type:        genai.TypeString,
						Description: "Optional memo for both splits.",
					},
				},
				Required: []string{"from_account", "to_account", "amount", "description"},
			},
		},
		Run: func(ctx context.Context, args map[string]any) string {
			description := stringArg(args, "description")
			sum, err := svc.Transfer(ledger.TransferParams{
				From:        stringArg(args, "from_account"),
				To:          stringArg(args, "to_account"),
				Amount:      decimalArg(args, "amount"),
				Description: description,
				Date:        stringArg(args, "date"),
				Memo:        stringArg(args, "memo"),
			})
			if err != nil {
				return fail(svc, err)
			}
			return renderTransfer(sum, description)
		},
	}
}

func newCommit(svc *ledger.Service) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "commit",
			Description: "[WRITE MODE] Save all pending changes to the ledger file immediately. " +
				"Changes are also auto-saved when the session ends.",
		},
		Run: func(ctx context.Context, args map[string]any) string {
			if err := svc.Commit(); err != nil {
				return fail(svc, err)
			}
			return "Changes committed successfully."
		},
	}
}
