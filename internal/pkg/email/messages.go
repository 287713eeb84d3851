package email

import (
	"fmt"
	"time"
)

const frenchDate = "02/01/2006"

// LeaveRequestData describes a leave request filed or edited in the employee's name.
type LeaveRequestData struct {
	LastName  string
	FirstName string
	Days      int
	Start     time.Time
	Return    time.Time
	Motive    string
	RequestID string
	Update    bool
}

func (d LeaveRequestData) Subject() string {
	if d.Update {
		return "Mise à jour de votre demande de congé"
	}
	return "Nouvelle demande de congé"
}

func (d LeaveRequestData) Action() string {
	if d.Update {
		return "mis à jour sa demande de"
	}
	return "demandé un"
}

func (d LeaveRequestData) StartLabel() string { return d.Start.Format(frenchDate) }
func (d LeaveRequestData) ReturnLabel() string { return d.Return.Format(frenchDate) }

// Text is the plain form stored as the in-app notification.
func (d LeaveRequestData) Text() string {
	return fmt.Sprintf("%s %s a %s congé de %d jour(s) du %s au %s. Motif : %s",
		d.LastName, d.FirstName, d.Action(), d.Days, d.StartLabel(), d.ReturnLabel(), d.Motive)
}

// LeaveStatusData describes the decision taken on a leave request.
type LeaveStatusData struct {
	LastName  string
	FirstName string
	Start     time.Time
	Return    time.Time
	Approved  bool
}

func (d LeaveStatusData) Decision() string {
	if d.Approved {
		return "approuvée"
	}
	return "rejetée"
}

func (d LeaveStatusData) Subject() string {
	return "Votre demande de congé a été " + d.Decision()
}

func (d LeaveStatusData) StartLabel() string { return d.Start.Format(frenchDate) }
func (d LeaveStatusData) ReturnLabel() string { return d.Return.Format(frenchDate) }

func (d LeaveStatusData) Text() string {
	return fmt.Sprintf("%s %s, votre demande de congé prévue du %s au %s a été %s.",
		d.LastName, d.FirstName, d.StartLabel(), d.ReturnLabel(), d.Decision())
}

// ScheduleChangeData announces a temporary shift.
type ScheduleChangeData struct {
	LastName  string
	FirstName string
	Start     time.Time
	End       time.Time
	From      string
	To        string
	Update    bool
}

func (d ScheduleChangeData) Subject() string {
	return "Planning"
}

func (d ScheduleChangeData) Headline() string {
	if d.Update {
		return "Un changement de planning a été décidé."
	}
	return "Un nouveau planning a été décidé."
}

func (d ScheduleChangeData) StartLabel() string { return d.Start.Format(frenchDate) }
func (d ScheduleChangeData) EndLabel() string { return d.End.Format(frenchDate) }

func (d ScheduleChangeData) Text() string {
	text := fmt.Sprintf("%s %s, %s Du %s au %s, votre horaire de travail sera de %s à %s.",
		d.LastName, d.FirstName, d.Headline(), d.StartLabel(), d.EndLabel(), d.From, d.To)
	if d.Update {
		text += " Veuillez consulter le calendrier de l'entreprise."
	}
	return text
}

// AbsenceNoticeData asks an employee to justify an absence.
type AbsenceNoticeData struct {
	LastName  string
	FirstName string
	Date      time.Time
}

func (d AbsenceNoticeData) Subject() string {
	return "Notification d'absence"
}

func (d AbsenceNoticeData) DateLabel() string { return d.Date.Format(frenchDate) }

func (d AbsenceNoticeData) Text() string {
	return fmt.Sprintf("%s %s, nous avons constaté votre absence pour la journée du %s. Veuillez nous contacter pour la justifier.",
		d.LastName, d.FirstName, d.DateLabel())
}
