package services

import (
	"fmt"
	"strings"

	"github.com/JuCalll/menu-clinica/models"
)

// PrintService renders a plain-text receipt for one section of an order and
// streams it to the ticket printer. Printer failures never touch order
// state; they only fail this call.
type PrintService struct {
	Orders  *OrderService
	Audit   *AuditService
	Client  PrinterClient
	Retries int
}

func NewPrintService(orders *OrderService, audit *AuditService, client PrinterClient, retries int) *PrintService {
	if retries < 1 {
		retries = 1
	}
	return &PrintService{Orders: orders, Audit: audit, Client: client, Retries: retries}
}

// PrintOrder prints the receipt for the given order and section title.
func (s *PrintService) PrintOrder(actorID *uint, orderID uint, sectionTitle string) error {
	order, err := s.Orders.Get(orderID)
	if err != nil {
		return err
	}
	receipt, err := RenderReceipt(order, sectionTitle)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < s.Retries; attempt++ {
		lastErr = s.printOnce(receipt)
		if lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return lastErr
	}

	s.Audit.Record(actorID, models.ActionUpdate, "Pedido", &orderID, map[string]interface{}{
		"accion":        "print",
		"section_title": sectionTitle,
	})
	return nil
}

func (s *PrintService) printOnce(receipt string) error {
	if err := s.Client.Connect(); err != nil {
		return err
	}
	defer s.Client.Close()
	if err := s.Client.Print(receipt); err != nil {
		return err
	}
	return s.Client.Cut()
}

// RenderReceipt builds the ticket text: patient identity and location, the
// requested section's selected options, and the order notes.
func RenderReceipt(order OrderView, sectionTitle string) (string, error) {
	patient := order.Patient
	var b strings.Builder

	b.WriteString("CLINICA - SERVICIO DE ALIMENTACION\n")
	b.WriteString(strings.Repeat("=", 34) + "\n")
	fmt.Fprintf(&b, "Pedido #%d  %s\n", order.ID, order.OrderedAt.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "Paciente: %s (CC %s)\n", patient.Name, patient.NationalID)
	fmt.Fprintf(&b, "Ubicacion: %s / %s / cama %s\n",
		patient.Bed.Room.Service.Name, patient.Bed.Room.Name, patient.Bed.Name)

	if len(patient.Diets) > 0 {
		names := make([]string, 0, len(patient.Diets))
		for _, d := range patient.Diets {
			names = append(names, d.Name)
		}
		fmt.Fprintf(&b, "Dietas: %s\n", strings.Join(names, ", "))
	}
	if len(patient.Allergies) > 0 {
		names := make([]string, 0, len(patient.Allergies))
		for _, a := range patient.Allergies {
			names = append(names, a.Name)
		}
		fmt.Fprintf(&b, "Alergias: %s\n", strings.Join(names, ", "))
	}

	section, err := findSection(order, sectionTitle)
	if err != nil {
		return "", err
	}
	b.WriteString(strings.Repeat("-", 34) + "\n")
	fmt.Fprintf(&b, "%s\n", strings.ToUpper(section.Title))

	printed := 0
	for _, sel := range order.Options {
		if !sel.Selected || sel.MenuOption.SectionID != section.ID {
			continue
		}
		fmt.Fprintf(&b, "  - %s\n", sel.MenuOption.Text)
		printed++
	}
	if printed == 0 {
		b.WriteString("  (sin opciones seleccionadas)\n")
	}

	for key, value := range order.Additional {
		fmt.Fprintf(&b, "Adicional %s: %v\n", key, value)
	}
	if order.Notes != "" {
		b.WriteString(strings.Repeat("-", 34) + "\n")
		fmt.Fprintf(&b, "Observaciones: %s\n", order.Notes)
	}
	return b.String(), nil
}

func findSection(order OrderView, title string) (models.MenuSection, error) {
	if title == "" {
		return models.MenuSection{}, NewValidation("section_title es obligatorio")
	}
	for _, sec := range order.Menu.Sections {
		if strings.EqualFold(sec.Title, title) {
			return sec, nil
		}
	}
	return models.MenuSection{}, NewNotFound(
		fmt.Sprintf("el menú del pedido no tiene una sección %q", title))
}
