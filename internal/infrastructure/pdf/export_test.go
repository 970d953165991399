package pdf

// FormatMoney expone formatMoney a los tests del paquete pdf_test.
var FormatMoney = formatMoney
