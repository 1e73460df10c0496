package config

import "github.com/dvloznov/report-uploader/internal/report"

const remoteRoot = "RETAMAR/2_INFORMES/2_1_Informes_automaticos"

// DefaultCadences returns the plant's report layout: where each cadence is
// published and how its documents are tagged.
func DefaultCadences() map[report.Cadence]CadenceConfig {
	return map[report.Cadence]CadenceConfig{
		report.Daily: {
			Prefix:     report.DailyPrefix,
			Category:   "informe_diario",
			Label:      "diario",
			UploadedBy: "Sistema Automático Diario",
			Tags:       []string{"retamar", "informe", "diario", "automatico", "pv"},
			Destinations: []DestinationConfig{{
				Name:       "tecnicos",
				RemotePath: remoteRoot + "/2_1_1_Informes_tecnicos/2_1_1_1_Informes_diarios",
				FolderID:   "d2ec4090-da60-4c45-a02b-2fc69c2c6086",
			}},
		},
		report.Weekly: {
			Prefix:     report.WeeklyPrefix,
			Category:   "informe_semanal",
			Label:      "semanal",
			Schedule:   "cada lunes",
			UploadedBy: "Sistema Automático Semanal",
			Tags:       []string{"retamar", "informe", "semanal", "automatico", "pv"},
			Destinations: []DestinationConfig{
				{
					Name:       "tecnicos",
					RemotePath: remoteRoot + "/2_1_1_Informes_tecnicos/2_1_1_2_Informes_semanales",
					FolderID:   "f381e2e5-92dc-4c1f-a63f-a5798d9cabff",
				},
				{
					Name:       "clientes",
					RemotePath: remoteRoot + "/2_1_2_Informes_clientes/2_1_2_2_Informes_semanales",
					FolderID:   "6666faae-b938-44ad-be60-a2b5028b2d53",
				},
			},
		},
		report.Monthly: {
			Prefix:     report.MonthlyPrefix,
			Category:   "informe_mensual",
			Label:      "mensual",
			Schedule:   "el día 1",
			UploadedBy: "Sistema Automático Mensual",
			Tags:       []string{"retamar", "informe", "mensual", "automatico", "pv"},
			Destinations: []DestinationConfig{
				{
					Name:       "tecnicos",
					RemotePath: remoteRoot + "/2_1_1_Informes_tecnicos/2_1_1_3_Informes_mensuales",
					FolderID:   "bf31e8fa-dc4f-4b73-b2e4-177fb00b3a8c",
				},
				{
					Name:       "clientes",
					RemotePath: remoteRoot + "/2_1_2_Informes_clientes/2_1_2_3_Informes_mensuales",
					FolderID:   "25b9b835-f4af-4a37-9667-567fdef4c477",
				},
			},
		},
	}
}
