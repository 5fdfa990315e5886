package schedule

import "time"

// Slots percorre a janela [open, close] com passo stride e emite os inícios
// "15:04" em que um atendimento de duration cabe inteiro sem intersectar
// nenhum intervalo bloqueado. Função pura: mesmo input, mesmo output.
//
// Regras:
//   - só futuro: cursor estritamente depois de now
//   - o último slot pode terminar exatamente em close
//   - interseção semiaberta: encostar num bloqueio não conflita
func Slots(
	open time.Time,
	close time.Time,
	duration time.Duration,
	stride time.Duration,
	blocked []Interval,
	now time.Time,
) []string {

	if duration <= 0 || stride <= 0 {
		return []string{}
	}

	slots := []string{}

	for cur := open; !cur.Add(duration).After(close); cur = cur.Add(stride) {
		if !cur.After(now) {
			continue
		}
		if OverlapsAny(blocked, cur, cur.Add(duration)) {
			continue
		}
		slots = append(slots, cur.Format("15:04"))
	}

	return slots
}
