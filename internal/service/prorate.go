package service

// DeltaDays рассчитывает пропорциональную дельту срока действия подписки в днях.
// Транзакция на полную стоимость подписки дает ровно period дней, частичная
// сумма масштабируется линейно с отбрасыванием дробной части дня.
// Паникует при нулевой стоимости подписки: такая запись в каталоге некорректна
func DeltaDays(transactionAmount, subscriptionAmount float64, subscriptionPeriod int) int {
	if subscriptionAmount == 0 {
		panic("subscription amount is zero")
	}
	return int(float64(subscriptionPeriod) * transactionAmount / subscriptionAmount)
}
