package extract

const sampleQuote = `Offertenummer: 482
Gemaakt op: 19/09/2024

Naam bedrijf  Acme Media BV
1000 Brussel
Kerkstraat 12
BTW BE0123456789

Dienst           Regio       Type     Aantal  Waarde    Prijs
Digital Signage  Brussel     Scherm   2       25,00     € 50,00
Radio Spot       Vlaanderen  Audio    1       50,00     € 50,00

Totaal zonder BTW: € 100,00
BTW (21%): € 21,00
Eindtotaal: € 121,00
`
