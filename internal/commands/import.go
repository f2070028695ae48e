package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/dedupe"
	"github.com/fintrack-dev/fintrack/internal/importer"
	"github.com/fintrack-dev/fintrack/internal/logger"
	"github.com/fintrack-dev/fintrack/internal/mapper"
	"github.com/fintrack-dev/fintrack/internal/reader"
	"github.com/fintrack-dev/fintrack/internal/store"
)

type importOptions struct {
	user           string
	account        string
	mappings       []string
	debitColumn    string
	creditColumn   string
	edits          []string
	tags           []string
	skipDuplicates bool
	force          bool
	dryRun         bool
}

func newImportCommand() *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement (CSV, XLSX, XLS, or PDF)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), cfg, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.user, "user", "default", "owner username")
	cmd.Flags().StringVar(&opts.account, "account", "", "destination account (default from config)")
	cmd.Flags().StringArrayVar(&opts.mappings, "map", nil, "column mapping override, e.g. --map date=\"Txn Date\"")
	cmd.Flags().StringVar(&opts.debitColumn, "debit", "", "debit column for split-amount statements")
	cmd.Flags().StringVar(&opts.creditColumn, "credit", "", "credit column for split-amount statements")
	cmd.Flags().StringArrayVar(&opts.edits, "edit", nil, "row edit, e.g. --edit 3:merchant=\"Big Basket\"")
	cmd.Flags().StringArrayVar(&opts.tags, "tag", nil, "tag to attach to every imported transaction")
	cmd.Flags().BoolVar(&opts.skipDuplicates, "skip-duplicates", false, "drop rows flagged as duplicates")
	cmd.Flags().BoolVar(&opts.force, "force", false, "commit even when duplicates are flagged")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "preview without writing to the database")

	return cmd
}

func runImport(ctx context.Context, cfg *config.Config, path string, opts *importOptions) error {
	log := logger.Default()

	if cfg.Import.MaxFileSizeMB > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("checking %s: %w", path, err)
		}
		if info.Size() > int64(cfg.Import.MaxFileSizeMB)<<20 {
			return fmt.Errorf("%s exceeds the %d MB import limit", path, cfg.Import.MaxFileSizeMB)
		}
	}

	res, err := reader.Read(path)
	if err != nil {
		var noTable *reader.NoTableError
		if errors.As(err, &noTable) {
			fmt.Println("No transaction table found. Extracted text:")
			fmt.Println(noTable.Text)
			return errors.New("no transaction table found")
		}
		return err
	}
	for _, issue := range res.Issues {
		fmt.Printf("warning: line %d: %s\n", issue.Line, issue.Message)
	}

	session := importer.NewSession(path, res)
	if err := applyMappingFlags(session, opts); err != nil {
		return err
	}
	printMapping(session)

	if err := session.Normalize(); err != nil {
		var missing *mapper.MissingColumnsError
		if errors.As(err, &missing) {
			return fmt.Errorf("%s; use --map to assign columns", missing.Error())
		}
		return err
	}
	for _, rowErr := range session.RowErrors {
		fmt.Printf("warning: line %d: %s: %s\n", rowErr.Line, rowErr.Field, rowErr.Message)
	}

	if err := applyEditFlags(session, opts.edits); err != nil {
		return err
	}
	rows := session.EffectiveRows()
	if len(rows) == 0 {
		return errors.New("no importable rows")
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	users := store.NewUserRepo(db)
	user, err := users.FindByUsername(ctx, opts.user)
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user %q not found; run fintrack init first", opts.user)
	}

	accountName := opts.account
	if accountName == "" {
		accountName = cfg.Import.DefaultAccount
	}
	accounts := store.NewAccountRepo(db)
	accountID, err := accounts.FindOrCreate(ctx, user.ID, accountName, "bank")
	if err != nil {
		return fmt.Errorf("resolving account: %w", err)
	}

	detector := dedupe.NewDetector(cfg.Dedupe.Thresholds())
	transactions := store.NewTransactionRepo(db)
	verdicts, err := importer.CheckDuplicates(ctx, detector, transactions, user.ID, cfg.Dedupe.DateWindowDays, rows)
	if err != nil {
		return err
	}

	flagged := 0
	for _, r := range rows {
		if v := verdicts[r.ID]; v.Duplicate {
			flagged++
			fmt.Printf("possible duplicate: line %d %s %s (matches #%d, %.0f%% similar)\n",
				r.Line, r.Date.Format("2006-01-02"), r.Description, v.MatchedID, v.Similarity*100)
		}
	}
	if opts.skipDuplicates && flagged > 0 {
		kept := rows[:0]
		for _, r := range rows {
			if !verdicts[r.ID].Duplicate {
				kept = append(kept, r)
			}
		}
		rows = kept
		fmt.Printf("skipping %d duplicate rows\n", flagged)
		if len(rows) == 0 {
			fmt.Println("nothing left to import")
			return nil
		}
	} else if flagged > 0 && !opts.force {
		return fmt.Errorf("%d possible duplicates; re-run with --force or --skip-duplicates", flagged)
	}

	if opts.dryRun {
		fmt.Printf("dry run: %d rows ready to import into %q\n", len(rows), accountName)
		for _, r := range rows {
			fmt.Printf("  %s  %s%s  %s\n",
				r.Date.Format("2006-01-02"), cfg.Currency.Symbol, r.Amount.StringFixed(2), r.Description)
		}
		return nil
	}

	engine := importer.NewEngine(db, log)
	result, err := engine.Commit(ctx, rows, importer.CommitParams{
		UserID:    user.ID,
		AccountID: accountID,
		TagLabels: opts.tags,
	})
	if err != nil {
		for _, f := range result.RowFailures {
			fmt.Printf("error: line %d: %s\n", f.Line, f.Message)
		}
		return err
	}

	fmt.Printf("Imported %d transactions into %q\n", result.SuccessCount, accountName)
	for _, name := range result.NewCategories {
		fmt.Printf("created category %q\n", name)
	}
	return nil
}

func applyMappingFlags(s *importer.Session, opts *importOptions) error {
	for _, raw := range opts.mappings {
		field, header, ok := strings.Cut(raw, "=")
		if !ok {
			return fmt.Errorf("invalid --map %q, want field=header", raw)
		}
		f, err := parseField(field)
		if err != nil {
			return err
		}
		s.Mapping.Set(f, header)
	}
	if (opts.debitColumn == "") != (opts.creditColumn == "") {
		return errors.New("--debit and --credit must be given together")
	}
	if opts.debitColumn != "" {
		s.Mapping.SetSplitAmount(opts.debitColumn, opts.creditColumn)
	}
	return nil
}

func applyEditFlags(s *importer.Session, edits []string) error {
	for _, raw := range edits {
		lineStr, rest, ok := strings.Cut(raw, ":")
		if !ok {
			return fmt.Errorf("invalid --edit %q, want line:field=value", raw)
		}
		line, err := strconv.Atoi(lineStr)
		if err != nil {
			return fmt.Errorf("invalid --edit line %q: %w", lineStr, err)
		}
		field, value, ok := strings.Cut(rest, "=")
		if !ok {
			return fmt.Errorf("invalid --edit %q, want line:field=value", raw)
		}
		row, found := s.RowByLine(line)
		if !found {
			return fmt.Errorf("--edit line %d has no importable row", line)
		}
		if err := s.Edits.Set(row.ID, field, value); err != nil {
			return fmt.Errorf("--edit line %d: %w", line, err)
		}
	}
	return nil
}

func parseField(name string) (mapper.Field, error) {
	switch mapper.Field(strings.ToLower(strings.TrimSpace(name))) {
	case mapper.FieldDate:
		return mapper.FieldDate, nil
	case mapper.FieldDescription:
		return mapper.FieldDescription, nil
	case mapper.FieldAmount:
		return mapper.FieldAmount, nil
	case mapper.FieldMerchant:
		return mapper.FieldMerchant, nil
	case mapper.FieldAccount:
		return mapper.FieldAccount, nil
	case mapper.FieldCategory:
		return mapper.FieldCategory, nil
	default:
		return "", fmt.Errorf("unknown field %q", name)
	}
}

func printMapping(s *importer.Session) {
	fmt.Println("Detected columns:")
	for f, header := range s.Mapping.Columns {
		fmt.Printf("  %-12s -> %q (%s)\n", f, header, s.Confidence[f])
	}
	if s.Mapping.HasSplitAmount() {
		fmt.Printf("  %-12s -> debit %q / credit %q\n", "amount", s.Mapping.DebitColumn, s.Mapping.CreditColumn)
	}
}
