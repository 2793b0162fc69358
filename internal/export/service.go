package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dverissimo/ustbudget/internal/budget"
)

// Service renders budgets into files a quotation can be sent with.
type Service struct {
	budgets *budget.Service
}

// NewService creates a new export Service.
func NewService(budgets *budget.Service) *Service {
	return &Service{budgets: budgets}
}

// ExportCSV writes the budget's items and totals block to a CSV file in the
// output directory, named after the budget number. It returns the file path.
func (s *Service) ExportCSV(ctx context.Context, budgetID uuid.UUID, outputDir string) (string, error) {
	b, err := s.budgets.Get(ctx, budgetID)
	if err != nil {
		return "", fmt.Errorf("loading budget: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(outputDir, fileName(b))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	records := [][]string{
		{"sequence", "activity_id", "hours", "complexity", "subtotal_ust", "subtotal_gross", "notes"},
	}

	for _, item := range b.Items {
		records = append(records, []string{
			fmt.Sprintf("%d", item.Sequence),
			item.ActivityID.String(),
			item.HoursEstimated.String(),
			item.ComplexitySnapshot.String(),
			item.SubtotalUst.String(),
			item.SubtotalGross.String(),
			item.Notes,
		})
	}

	records = append(records,
		[]string{"total_gross", b.TotalGross.String()},
		[]string{"discount_percent", b.DiscountPercent.String()},
		[]string{"total_discount", b.TotalDiscount.String()},
		[]string{"total_net", b.TotalNet.String()},
	)

	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("writing csv: %w", err)
	}

	return path, nil
}

// Summary creates a one-line-per-item plain-text rendering of the budget,
// suitable for pasting into an email to the client.
func (s *Service) Summary(ctx context.Context, budgetID uuid.UUID) (string, error) {
	b, err := s.budgets.Get(ctx, budgetID)
	if err != nil {
		return "", fmt.Errorf("loading budget: %w", err)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s | %s | %s\n", b.Number, b.IssueDate.Format("2006-01-02"), b.Status)

	for _, item := range b.Items {
		desc := item.Notes
		if desc == "" {
			desc = item.ActivityID.String()
		}

		fmt.Fprintf(&sb, "* #%d | %s | %s h x %s = %s UST | %s\n",
			item.Sequence, desc, item.HoursEstimated, item.ComplexitySnapshot,
			item.SubtotalUst, item.SubtotalGross)
	}

	fmt.Fprintf(&sb, "Gross %s | Discount %s%% (%s) | Net %s\n",
		b.TotalGross, b.DiscountPercent, b.TotalDiscount, b.TotalNet)

	return sb.String(), nil
}

// fileName turns the budget number into a filesystem-safe csv name, since the
// ORC series uses slashes.
func fileName(b *budget.Budget) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, b.Number)

	return safe + ".csv"
}
