package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"safety-training-service/internal/app"
	"safety-training-service/internal/certificate"
	"safety-training-service/internal/config"
	"safety-training-service/internal/domain"
)

// NewCertificateCmd renders a certificate PDF without a running server.
func NewCertificateCmd(configPath *string) *cobra.Command {
	var (
		name   string
		course string
		score  int
		date   string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "certificate",
		Short: "Render a completion certificate to a PDF file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			loc, err := time.LoadLocation(cfg.Certificate.Timezone)
			if err != nil {
				return fmt.Errorf("certificate timezone: %w", err)
			}

			completed := time.Now().In(loc)
			if date != "" {
				completed, err = time.ParseInLocation(certificate.DateLayout, date, loc)
				if err != nil {
					return fmt.Errorf("date must look like dd/mm/yyyy: %w", err)
				}
			}
			if name == "" {
				name = cfg.Certificate.DefaultStudentName
			}
			if course == "" {
				course = cfg.Certificate.DefaultCourseTitle
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			cert := domain.Certificate{
				StudentName:    name,
				CourseTitle:    course,
				Score:          score,
				CompletedAt:    completed,
				Workload:       cfg.Certificate.Workload,
				Issuer:         cfg.Certificate.Issuer,
				ValidationCode: app.NewValidationCode(),
			}
			if err := certificate.NewRenderer(loc).Render(f, cert); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "certificate %s written to %s\n", cert.ValidationCode, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "student name")
	cmd.Flags().StringVar(&course, "course", "", "course title")
	cmd.Flags().IntVar(&score, "score", 0, "quiz score")
	cmd.Flags().StringVar(&date, "date", "", "completion date (dd/mm/yyyy), today when empty")
	cmd.Flags().StringVarP(&out, "out", "o", "certificate.pdf", "output file")
	return cmd
}
