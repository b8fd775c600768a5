// AngelaMos | 2026
// i18n.go

// Package i18n holds the interface copy shown to visitors. Module names
// ("Módulo 3") are page titles and stay untranslated.
package i18n

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	MsgHome            = "Home"
	MsgDashboard       = "Dashboard"
	MsgModuleCompleted = "Module %d completed!"
	MsgModuleUnlocked  = "Module %d unlocked"
	MsgCourseFinished  = "Course finished!"
	MsgProgressSaved   = "Your progress has been saved automatically."
	MsgAccessDenied    = "You must log in and purchase the course to access this content."
	MsgLogoutConfirm   = "Are you sure you want to log out?"
	MsgCopied          = "Copied to clipboard"
	MsgLoading         = "Loading..."
	MsgNavigationHelp  = "navigation.help"
)

var supported = []language.Tag{language.English, language.Spanish}

var matcher = language.NewMatcher(supported)

var cat = build()

func build() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	set := func(tag language.Tag, key, msg string) {
		//nolint:errcheck // static catalog entries
		_ = b.SetString(tag, key, msg)
	}

	for key, msg := range english {
		set(language.English, key, msg)
	}
	for key, msg := range spanish {
		set(language.Spanish, key, msg)
	}

	return b
}

var english = map[string]string{
	MsgHome:            "Home",
	MsgDashboard:       "Dashboard",
	MsgModuleCompleted: "Module %d completed!",
	MsgModuleUnlocked:  "Module %d unlocked",
	MsgCourseFinished:  "Course finished!",
	MsgProgressSaved:   "Your progress has been saved automatically.",
	MsgAccessDenied:    "You must log in and purchase the course to access this content.",
	MsgLogoutConfirm:   "Are you sure you want to log out?",
	MsgCopied:          "Copied to clipboard",
	MsgLoading:         "Loading...",
	MsgNavigationHelp: `NAVIGATION HELP

KEYBOARD SHORTCUTS:
• Ctrl + ← : Previous module
• Ctrl + → : Next module
• Ctrl + H : Go home

NAVIGATION:
• Use the top menu to move between sections
• The buttons at the end of each module take you to the next one
• The Dashboard shows your overall progress

MOBILE:
• Tap the ☰ button to open the menu
• Swipe to scroll
• Every module is responsive`,
}

var spanish = map[string]string{
	MsgHome:            "Inicio",
	MsgDashboard:       "Dashboard",
	MsgModuleCompleted: "¡Módulo %d Completado!",
	MsgModuleUnlocked:  "Módulo %d desbloqueado",
	MsgCourseFinished:  "¡Curso terminado!",
	MsgProgressSaved:   "Tu progreso se ha guardado automáticamente.",
	MsgAccessDenied:    "Debes iniciar sesión y comprar el curso para acceder a este contenido.",
	MsgLogoutConfirm:   "¿Estás seguro de que quieres cerrar sesión?",
	MsgCopied:          "Copiado al portapapeles",
	MsgLoading:         "Cargando...",
	MsgNavigationHelp: `AYUDA DE NAVEGACIÓN

ATAJOS DE TECLADO:
• Ctrl + ← : Módulo anterior
• Ctrl + → : Siguiente módulo
• Ctrl + H : Ir al inicio

NAVEGACIÓN:
• Usa el menú superior para moverte entre secciones
• Los botones al final de cada módulo te llevan al siguiente
• El Dashboard muestra tu progreso general

MÓVIL:
• Toca el botón ☰ para abrir el menú
• Desliza para hacer scroll
• Todos los módulos son responsive`,
}

// Tag resolves a locale string or Accept-Language value to a supported tag.
func Tag(locale string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	tag, _, _ := matcher.Match(tags...)
	base, _ := tag.Base()
	return language.Make(base.String())
}

func Printer(locale string) *message.Printer {
	return message.NewPrinter(Tag(locale), message.Catalog(cat))
}

type localeKey struct{}

// WithLocale records the visitor's locale for code that renders copy deep
// inside a request, such as completion toasts.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

func Locale(ctx context.Context) string {
	if l, ok := ctx.Value(localeKey{}).(string); ok {
		return l
	}
	return ""
}

func FromContext(ctx context.Context) *message.Printer {
	return Printer(Locale(ctx))
}
