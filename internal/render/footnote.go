package render

import "logrouter/internal/model"

const (
	defaultPlaybook      = "https://confluence.ons.gov.uk/display/QSS/Managing+Prod+Alerts"
	dataDeliveryPlaybook = "https://confluence.ons.gov.uk/display/QSS/Data+Delivery+Alerts+Playbook"
	totalMobilePlaybook  = "https://confluence.ons.gov.uk/display/QSS/Totalmobile+Alerts+Playbook"
	nisraPlaybook        = "https://confluence.ons.gov.uk/display/QSS/NISRA+Alerts+Playbook"
	schedulerPlaybook    = "https://confluence.ons.gov.uk/display/QSS/Scheduled+Jobs+Alerts+Playbook"
)

var dataDeliveryApplications = map[string]bool{
	"data-delivery":          true,
	"deliver-mi-hub-reports": true,
	"publish-dd-file":        true,
}

var totalMobileApplications = map[string]bool{
	"totalmobile-gateway":     true,
	"tm-appointment-sync":     true,
	"update-case-totalmobile": true,
}

var nisraApplications = map[string]bool{
	"nisra-case-mover-trigger":   true,
	"nisra-case-mover-processor": true,
}

func buildFootnote(entry *model.ProcessedLogEntry, project string) string {
	step3 := "3. Determine the cause of the error"
	if entry.Timestamp != nil {
		step3 = "3. <" + BuildLogLink(entry.LogQuery, *entry.Timestamp, project) + " | View the logs>"
	}
	return "*Next Steps*\n" +
		"1. Add some :eyes: to show you are looking into this\n" +
		"2. Check the system is online\n" +
		step3 + "\n" +
		"4. Follow the <" + playbookFor(entry) + " | playbook> to resolve the alert"
}

// playbookFor picks the fourth-step playbook from the application groups
// and the log query hints, defaulting to the managing-alerts guide.
func playbookFor(entry *model.ProcessedLogEntry) string {
	switch {
	case dataDeliveryApplications[entry.Application]:
		return dataDeliveryPlaybook
	case totalMobileApplications[entry.Application]:
		return totalMobilePlaybook
	case nisraApplications[entry.Application]:
		return nisraPlaybook
	case entry.LogQuery["resource.type"] == "cloud_scheduler_job":
		return schedulerPlaybook
	default:
		return defaultPlaybook
	}
}
