package model

import "time"

// TermAcceptance is the signed term of responsibility attached to a
// reservation.  It is written exactly once, after the requester has
// completed the timed reading gate.  JSON field names and the
// dd/mm/yyyy + HH:mm formats follow the persisted store contract.
//
// Fields:
//  Declaracao  – templated statement embedding requester name/apartment.
//  CPF         – signer's tax id.
//  Data        – date of signing, dd/mm/yyyy.
//  Horario     – time of signing, HH:mm.
//  DataEnvio   – submission timestamp.
//  Nome        – signer's name.
//  Apartamento – signer's apartment number.
type TermAcceptance struct {
    Declaracao  string    `json:"declaracao"`
    CPF         string    `json:"cpf"`
    Data        string    `json:"data"`
    Horario     string    `json:"horario"`
    DataEnvio   time.Time `json:"dataEnvio"`
    Nome        string    `json:"nome"`
    Apartamento string    `json:"apartamento"`
}

// TermStatement renders the liability statement for a requester.  The
// wording matches the text the suite has always shown on the signing
// screen.
func TermStatement(nome, apartamento string) string {
    return "Eu, " + nome + ", morador(a) do apartamento " + apartamento +
        ", declaro estar ciente das normas de uso do espaco reservado e " +
        "assumo total responsabilidade por quaisquer danos causados " +
        "durante o evento."
}

// NewTermAcceptance builds the record written under a reservation when
// the requester signs.  Date and time fields are rendered from signedAt
// in UTC.
func NewTermAcceptance(nome, apartamento, cpf string, signedAt time.Time) TermAcceptance {
    at := signedAt.UTC()
    return TermAcceptance{
        Declaracao:  TermStatement(nome, apartamento),
        CPF:         cpf,
        Data:        at.Format("02/01/2006"),
        Horario:     at.Format("15:04"),
        DataEnvio:   at,
        Nome:        nome,
        Apartamento: apartamento,
    }
}
