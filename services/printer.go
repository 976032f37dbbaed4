package services

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PrinterClient abstracts the ticket printer so the order engine never
// touches socket details. Implementations must be safe to Close after a
// failed Connect.
type PrinterClient interface {
	Connect() error
	Print(text string) error
	Cut() error
	Close() error
}

// PrinterConfig is injected explicitly; the printer address is runtime
// configuration, never a compile-time constant.
type PrinterConfig struct {
	Host        string
	Port        int
	DialTimeout time.Duration
}

// ESC/POS control sequences understood by the kitchen's thermal printer.
var (
	escposInit = []byte{0x1B, 0x40}       // ESC @  reset
	escposCut  = []byte{0x1D, 0x56, 0x00} // GS V 0 full cut
)

// EscposPrinter talks ESC/POS over a raw TCP socket.
type EscposPrinter struct {
	cfg  PrinterConfig
	conn net.Conn
}

func NewEscposPrinter(cfg PrinterConfig) *EscposPrinter {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	return &EscposPrinter{cfg: cfg}
}

func (p *EscposPrinter) Connect() error {
	addr := net.JoinHostPort(p.cfg.Host, fmt.Sprint(p.cfg.Port))
	conn, err := net.DialTimeout("tcp", addr, p.cfg.DialTimeout)
	if err != nil {
		return diagnoseDialError(err, p.cfg)
	}
	p.conn = conn
	_, err = conn.Write(escposInit)
	return err
}

// Print transliterates accents to plain ASCII before writing; the printer's
// code page cannot render them.
func (p *EscposPrinter) Print(text string) error {
	if p.conn == nil {
		return NewPrinterError("impresora no conectada")
	}
	_, err := p.conn.Write([]byte(Transliterate(text)))
	return err
}

func (p *EscposPrinter) Cut() error {
	if p.conn == nil {
		return NewPrinterError("impresora no conectada")
	}
	if _, err := p.conn.Write([]byte("\n\n\n\n")); err != nil {
		return err
	}
	_, err := p.conn.Write(escposCut)
	return err
}

func (p *EscposPrinter) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

// diagnoseDialError maps network failures to actionable messages: the print
// endpoint is the one place where connectivity detail goes back to the
// caller.
func diagnoseDialError(err error, cfg PrinterConfig) *APIError {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return NewPrinterError(fmt.Sprintf(
			"no se pudo resolver el host de la impresora %q: verifique PRINTER_HOST y el DNS de la red", cfg.Host))
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return NewPrinterError(fmt.Sprintf(
			"la impresora en %s:%d rechazó la conexión: verifique que esté encendida y que el puerto sea el correcto",
			cfg.Host, cfg.Port))
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewPrinterError(fmt.Sprintf(
			"tiempo de espera agotado conectando a la impresora en %s:%d: verifique el cableado y que el equipo responda",
			cfg.Host, cfg.Port))
	}
	return NewPrinterError(fmt.Sprintf("no se pudo conectar a la impresora en %s:%d: %v", cfg.Host, cfg.Port, err))
}

var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Transliterate strips diacritics (á→a, ñ→n) and drops whatever non-ASCII
// remains, keeping receipts printable on any code page.
func Transliterate(s string) string {
	folded, _, err := transform.String(asciiFold, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r < 128 {
			b.WriteRune(r)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}
