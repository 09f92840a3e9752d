package venues

import "strings"

// Monedas quote conocidas, en orden de prueba. El orden importa: USDT antes
// que USDC evita recortes parciales en pares como XUSDCUSDT.
var quoteCurrencies = []string{"USDT", "USDC", "BTC", "ETH", "BNB"}

// baseFromSeparator extrae el símbolo base de un par con separador explícito
// ("BTC_USDT" → "BTC"). Si no hay separador devuelve el par tal cual.
func baseFromSeparator(pair, sep string) string {
	if i := strings.Index(pair, sep); i > 0 {
		return pair[:i]
	}
	return pair
}

// baseFromSuffix extrae el símbolo base recortando la primera quote conocida
// que aparezca como sufijo ("TURTLEUSDT" → "TURTLE").
//
// Heurística conocida por imperfecta: un activo cuyo símbolo termina en una
// quote currency ("ABTC" contra USD, p.ej.) se recorta mal. Se mantiene tal
// cual: corregirla cambia la identidad cross-venue de símbolos ya observados.
func baseFromSuffix(pair string) string {
	for _, quote := range quoteCurrencies {
		if strings.HasSuffix(pair, quote) && len(pair) > len(quote) {
			return pair[:len(pair)-len(quote)]
		}
	}
	return pair
}
