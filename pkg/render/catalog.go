package render

import "golang.org/x/text/language"

// spanish holds the bundled es translations. Keys are the English text the
// validators and flows emit.
var spanish = map[string]string{
	"Email is required":                                            "El correo electrónico es obligatorio",
	"Please enter a valid email address":                           "Introduce una dirección de correo válida",
	"Password is required":                                         "La contraseña es obligatoria",
	"Password must be at least 6 characters long":                  "La contraseña debe tener al menos 6 caracteres",
	"Password is too weak":                                         "La contraseña es demasiado débil",
	"Please confirm your password":                                 "Confirma tu contraseña",
	"Passwords do not match":                                       "Las contraseñas no coinciden",
	"First name is required":                                       "El nombre es obligatorio",
	"First name must be at least 2 characters":                     "El nombre debe tener al menos 2 caracteres",
	"Last name is required":                                        "El apellido es obligatorio",
	"Last name must be at least 2 characters":                      "El apellido debe tener al menos 2 caracteres",
	"Please accept the Terms of Service and Privacy Policy":        "Acepta los Términos del servicio y la Política de privacidad",
	"Login successful! Redirecting...":                             "¡Inicio de sesión correcto! Redirigiendo...",
	"Account created successfully! Welcome aboard!":                "¡Cuenta creada correctamente! ¡Bienvenido!",
	"Invalid email or password":                                    "Correo o contraseña no válidos",
	"An error occurred. Please try again.":                         "Se produjo un error. Inténtalo de nuevo.",
	"Terms of Service and Privacy Policy would be displayed here.": "Aquí se mostrarían los Términos del servicio y la Política de privacidad.",
	"%s login functionality would be implemented here.":            "Aquí se implementaría el inicio de sesión con %s.",
	"%s signup functionality would be implemented here.":           "Aquí se implementaría el registro con %s.",
	"Connecting...":                                                "Conectando...",
	"Password strength":                                            "Seguridad de la contraseña",
	"Weak password":                                                "Contraseña débil",
	"Medium password":                                              "Contraseña media",
	"Strong password":                                              "Contraseña segura",
}

// DefaultCatalog returns a catalog with English as the fallback and the
// bundled Spanish messages. English needs no entries since keys are English.
func DefaultCatalog() *Catalog {
	c := NewCatalog(language.English)
	c.Set(language.Spanish, spanish)
	return c
}
