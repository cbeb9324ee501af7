// Package application contém os casos de uso do SDK: resolução de identidade,
// geração da chave de identificação, normalização e validação do payload e o
// dispatcher que fala com o serviço de proteção.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Protect(ctx, req, userID, requested) retorna uma domain.Decision.
package application
