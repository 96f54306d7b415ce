// Package measure maps legacy measurement families onto the PIM measurement
// family resource and renders conversion operands as canonical decimals.
//
// Families without a standard unit are skipped with a warning. Every other
// family is emitted with its standard_unit_code, a label in the configured
// locale and a units object that is always present, possibly empty. Unit and
// operation order follow the source file.
package measure
