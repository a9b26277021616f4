// Comando plan: ejecuta una pasada de planeación sobre un volcado JSON de la red
// sin base de datos. Útil para simular escenarios y revisar propuestas.
//
//	go run ./cmd/plan run --input red.json --setting inpatient --report pasada.pdf
//	go run ./cmd/plan forecast --input red.json --site site-a --ndc 0002-8215-01
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/planning"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Suministros-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Suministros-api/pkg/config"
	"github.com/jhoicas/Suministros-api/pkg/logger"
)

type inputFlags struct {
	path    string
	charset string
	now     string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "input", "i", "-", "volcado JSON de la red (- = stdin)")
	cmd.Flags().StringVar(&f.charset, "charset", "utf-8", "codificación del volcado: utf-8 | latin1 | windows-1252")
	cmd.Flags().StringVar(&f.now, "now", "", "instante de la pasada en RFC3339 (por defecto el del volcado o el actual)")
}

func (f *inputFlags) load() (*dto.NetworkImportRequest, time.Time, error) {
	var r io.Reader = os.Stdin
	if f.path != "-" {
		file, err := os.Open(f.path)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		r = file
	}
	nf, err := dto.ReadNetworkImport(r, f.charset)
	if err != nil {
		return nil, time.Time{}, err
	}
	now := time.Now().UTC()
	if nf.Now != nil {
		now = *nf.Now
	}
	if f.now != "" {
		now, err = time.Parse(time.RFC3339, f.now)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("parse --now: %w", err)
		}
	}
	return nf, now, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "plan",
		Short:         "Simulador de pasadas de asignación de suministros",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(forecastCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var (
		in      inputFlags
		setting string
		report  string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ejecuta una pasada y escribe el resultado en JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if setting != "" && setting != string(entity.SettingInpatient) && setting != string(entity.SettingOutpatient) {
				return fmt.Errorf("--setting inválido: %q", setting)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(os.Stderr, cfg.App.LogLevel)

			nf, now, err := in.load()
			if err != nil {
				return err
			}
			network := memory.NewNetwork()
			network.Load(nf.ToEntities())
			runs := memory.NewPlanningRunRepository()
			uc := planning.NewPassUseCase(
				planning.Stores{
					Sites:     network.Sites(),
					Inventory: network.Inventory(),
					Transfers: network.Transfers(),
					Patients:  network.Patients(),
					Catalog:   network.Catalog(),
					Runs:      runs,
				},
				planning.NewPlannerFromConfig(cfg.Planner),
				nil, nil, nil, log,
				planning.OptionsFromConfig(cfg.Planner, cfg.Marketplace),
			)

			ctx := cmd.Context()
			run, err := uc.Run(ctx, planning.PassRequest{
				NetworkID:      nf.NetworkID,
				RequestedBy:    "cli",
				PatientSetting: entity.PatientSetting(setting),
				Now:            now,
			})
			if err != nil {
				return err
			}

			if report != "" {
				reportUC := planning.NewReportUseCase(runs, network.Sites(), infrapdf.NewMarotoPDFGenerator())
				pdf, err := reportUC.Render(ctx, nf.NetworkID, run.ID)
				if err != nil {
					return err
				}
				if err := os.WriteFile(report, pdf, 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
			}
			return writeJSON(cmd.OutOrStdout(), dto.NewPlanningRunDTO(run))
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&setting, "setting", "", "ámbito de pacientes: inpatient | outpatient")
	cmd.Flags().StringVar(&report, "report", "", "ruta del reporte PDF de la pasada")
	return cmd
}

func forecastCmd() *cobra.Command {
	var (
		in           inputFlags
		siteID, ndc  string
		seasonality  float64
		acuity       float64
		serviceLevel float64
		leadTime     float64
	)
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Pronóstico de demanda y stock de seguridad de un medicamento en un sitio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			nf, now, err := in.load()
			if err != nil {
				return err
			}
			network := memory.NewNetwork()
			network.Load(nf.ToEntities())
			horizon := time.Duration(cfg.Planner.ForecastHorizonDays) * 24 * time.Hour
			uc := planning.NewForecastUseCase(network.Sites(), network.Patients(), network.Catalog(), horizon)

			res, err := uc.Forecast(cmd.Context(), planning.ForecastRequest{
				NetworkID:    nf.NetworkID,
				SiteID:       siteID,
				NDC:          ndc,
				Seasonality:  seasonality,
				Acuity:       acuity,
				ServiceLevel: serviceLevel,
				LeadTimeDays: leadTime,
				Now:          now,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.NewForecastDTO(res))
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&siteID, "site", "", "sitio a pronosticar")
	cmd.Flags().StringVar(&ndc, "ndc", "", "NDC del medicamento")
	cmd.Flags().Float64Var(&seasonality, "seasonality", 0, "factor estacional (0 = 1.0)")
	cmd.Flags().Float64Var(&acuity, "acuity", 0, "factor de agudeza (0 = 1.0)")
	cmd.Flags().Float64Var(&serviceLevel, "service-level", 0, "nivel de servicio (0 = 0.95)")
	cmd.Flags().Float64Var(&leadTime, "lead-time", 0, "tiempo de reposición en días (0 = 2)")
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("ndc")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
